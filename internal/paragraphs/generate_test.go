package paragraphs

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coverletter-backend/internal/responses"
)

var now = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func tags(list []responses.Response) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.Tags[0])
	}
	return out
}

func TestGenerateClosingAlwaysEmitted(t *testing.T) {
	got := Generate(Input{}, now)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"closing"}, tags(got))
	assert.Equal(t, responses.CategoryAI, got[0].Category)
	assert.Equal(t, responses.SourceResumeBased, got[0].Source)
}

func TestGenerateAllTemplates(t *testing.T) {
	in := Input{
		Keywords:  []string{"project management", "team lead", "python"},
		HasSkills: true,
		Text:      "Bachelor degree. 7 years of experience. Achieved record sales on every project.",
	}
	got := Generate(in, now)
	assert.Equal(t, []string{
		"experience-opening", "skills", "education", "leadership",
		"years-of-experience", "achievements", "closing",
	}, tags(got))

	assert.Contains(t, got[0].Text, "project management, team lead and python")
	assert.Contains(t, got[4].Text, "With 7 years of experience")

	ids := map[string]bool{}
	for _, r := range got {
		assert.True(t, strings.HasPrefix(r.ID, "resume-"))
		assert.False(t, ids[r.ID], "duplicate id %s", r.ID)
		ids[r.ID] = true
	}
}

func TestReplaceDoesNotAccumulate(t *testing.T) {
	library := responses.Defaults(now)
	mine := responses.Response{ID: "mine", Text: "x", Category: responses.CategoryUser, UserCreated: true}
	library = append(library, mine)

	first := Generate(Input{Keywords: []string{"sql"}}, now)
	library = Replace(library, first)
	second := Generate(Input{Keywords: []string{"java"}, HasSkills: true}, now.Add(time.Minute))
	library = Replace(library, second)

	firstIDs := map[string]bool{}
	for _, r := range first {
		firstIDs[r.ID] = true
	}
	generated := 0
	for _, r := range library {
		assert.False(t, firstIDs[r.ID], "stale paragraph %s survived", r.ID)
		if r.Source == responses.SourceResumeBased {
			generated++
		}
	}
	assert.Equal(t, len(second), generated)
	assert.Len(t, library, 11+len(second))
}
