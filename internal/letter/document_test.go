package letter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"coverletter-backend/internal/jobads"
	"coverletter-backend/internal/profile"
)

func TestSalutation(t *testing.T) {
	cases := []struct {
		contact, company, want string
	}{
		{"Sarah Nguyen", "Acme", "Dear Sarah Nguyen,"},
		{"  ", "Acme", "Dear Hiring Manager,"},
		{"", "", "Dear Recruitment Officer,"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Salutation(tc.contact, tc.company))
	}
}

func TestFileName(t *testing.T) {
	date := time.Date(2026, time.April, 5, 15, 0, 0, 0, time.UTC)
	got := FileName("Jane  Citizen", "Data/Analyst (Senior)", "Acme & Co.", date, "pdf")
	assert.Equal(t, "Jane Citizen - DataAnalyst Senior - Acme Co - 2026-04-05.pdf", got)
}

func TestBuild(t *testing.T) {
	doc := Build(Input{
		Profile: profile.Profile{
			FirstName:    "Jane",
			LastName:     "Citizen",
			AddressLine1: "12 Example Street",
			AddressLine2: "Richmond, VIC 3121",
			PhoneNumber:  "0412 345 678",
		},
		Job: jobads.Form{
			RoleTitle:   "Data Analyst",
			CompanyName: "<b>Acme</b>",
			RefNumber:   "BF-2291",
		},
		Paragraphs: []string{
			"I am applying for the [Role] position at {company}.",
			"   ",
			"Call me on [phone] about [reference] or [contact].",
		},
		PageSize: "A4",
	})

	assert.Equal(t, []string{"Jane Citizen", "12 Example Street", "Richmond, VIC 3121"}, doc.Sender)
	assert.Equal(t, []string{"Company: Acme", "Role: Data Analyst", "Reference No: BF-2291"}, doc.JobLines)
	assert.Equal(t, "Dear Hiring Manager,", doc.Salutation)
	assert.Equal(t, []string{
		"I am applying for the Data Analyst position at Acme.",
		"Call me on 0412 345 678 about BF-2291 or [contact].",
	}, doc.Paragraphs)
	assert.Equal(t, []string{"Sincerely,", "Jane Citizen"}, doc.Signature)
	assert.Equal(t, PageA4, doc.PageSize)
}

func TestBuildWithoutNameOmitsSignature(t *testing.T) {
	doc := Build(Input{Paragraphs: []string{"Hello."}})
	assert.Empty(t, doc.Sender)
	assert.Empty(t, doc.Signature)
	assert.Equal(t, "Dear Recruitment Officer,", doc.Salutation)
	assert.Equal(t, PageLetter, doc.PageSize)
}
