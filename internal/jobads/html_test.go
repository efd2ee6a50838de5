package jobads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFromHTML_Seek(t *testing.T) {
	html := `<html><body>
<h1 data-automation="job-detail-title">Registered Nurse</h1>
<span data-automation="advertiser-name">Acme Health</span>
<div data-automation="jobAdDetails"><p>Join our team.</p><ul><li>Reference Number: REF-1</li></ul></div>
<script>var tracking = 1;</script>
</body></html>`

	text, err := TextFromHTML(html, "https://www.seek.com.au/job/123")
	require.NoError(t, err)
	assert.Equal(t, "Registered Nurse\nAcme Health\nJoin our team.\nReference Number: REF-1", text)

	f := Extract(text, "seek.com.au")
	assert.Equal(t, "Registered Nurse", f.RoleTitle)
	assert.Equal(t, "REF-1", f.RefNumber)
}

func TestTextFromHTML_IndeedHeadline(t *testing.T) {
	html := `<html><body>
<h1 class="jobsearch-JobInfoHeader-title">Senior Nurse</h1>
<div data-company-name="true">Acme Health</div>
<div id="jobDescriptionText"><p>Great role</p></div>
</body></html>`

	text, err := TextFromHTML(html, "https://au.indeed.com/viewjob")
	require.NoError(t, err)
	assert.Equal(t, "Senior Nurse - Acme Health\nGreat role", text)

	f := Extract(text, "indeed.com")
	assert.Equal(t, "Senior Nurse", f.RoleTitle)
	assert.Equal(t, "Acme Health", f.CompanyName)
}

func TestTextFromHTML_Generic(t *testing.T) {
	text, err := TextFromHTML(`<html><head><style>p{}</style></head><body><h1>Chef</h1><p>Cook things<br>daily</p></body></html>`, "")
	require.NoError(t, err)
	assert.Equal(t, "Chef\nCook things\ndaily", text)
}
