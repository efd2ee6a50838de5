// Package letter assembles a cover letter from the profile, the job form and
// the ordered paragraphs, and renders it for download.
package letter

import (
	"regexp"
	"strings"
	"time"

	"coverletter-backend/internal/jobads"
	"coverletter-backend/internal/parsing"
	"coverletter-backend/internal/placeholders"
	"coverletter-backend/internal/profile"
)

const (
	PageLetter = "letter"
	PageA4     = "a4"
)

// Input is everything a rendered letter is built from.
type Input struct {
	Profile    profile.Profile `json:"profile"`
	Job        jobads.Form     `json:"job"`
	Paragraphs []string        `json:"paragraphs"`
	PageSize   string          `json:"pageSize"`
}

// Document is the laid-out letter, independent of output format.
type Document struct {
	Title      string
	Sender     []string
	JobLines   []string
	Salutation string
	Paragraphs []string
	Signature  []string
	PageSize   string
}

// Build lays out in. Profile and job values are sanitized and placeholders
// in the paragraphs are filled from them.
func Build(in Input) Document {
	p := in.Profile
	job := jobads.Form{
		RoleTitle:       sanitize(in.Job.RoleTitle),
		CompanyName:     sanitize(in.Job.CompanyName),
		ContactPerson:   sanitize(in.Job.ContactPerson),
		BusinessAddress: sanitize(in.Job.BusinessAddress),
		RefNumber:       sanitize(in.Job.RefNumber),
	}
	fullName := sanitize(p.FullName())

	doc := Document{
		Title:      fullName,
		Sender:     nonEmpty(fullName, sanitize(p.AddressLine1), sanitize(p.AddressLine2)),
		Salutation: Salutation(job.ContactPerson, job.CompanyName),
		PageSize:   NormalizePageSize(in.PageSize),
	}
	doc.JobLines = labelled(
		"Company", job.CompanyName,
		"Role", job.RoleTitle,
		"Contact", job.ContactPerson,
		"Address", job.BusinessAddress,
		"Reference No", job.RefNumber,
	)

	values := placeholders.Values{
		Role:      job.RoleTitle,
		Company:   job.CompanyName,
		Contact:   job.ContactPerson,
		Reference: job.RefNumber,
		Address:   job.BusinessAddress,
		Phone:     strings.TrimSpace(p.PhoneNumber),
		Email:     strings.TrimSpace(p.EmailAddress),
	}
	for _, para := range in.Paragraphs {
		text := strings.TrimSpace(placeholders.Apply(para, values))
		if text != "" {
			doc.Paragraphs = append(doc.Paragraphs, text)
		}
	}
	if fullName != "" {
		doc.Signature = []string{"Sincerely,", fullName}
	}
	return doc
}

// Salutation addresses the contact by name when known, otherwise the
// hiring manager of a named company, otherwise a generic recruiter.
func Salutation(contact, company string) string {
	if c := strings.TrimSpace(contact); c != "" {
		return "Dear " + c + ","
	}
	if strings.TrimSpace(company) != "" {
		return "Dear Hiring Manager,"
	}
	return "Dear Recruitment Officer,"
}

var (
	fileNameStrip = regexp.MustCompile(`[^\w\- ]+`)
	fileNameSpace = regexp.MustCompile(`\s+`)
)

// FileName is "<fullName> - <role> - <company> - <YYYY-MM-DD>.<ext>" with
// everything but word characters, hyphens and spaces removed.
func FileName(fullName, role, company string, date time.Time, ext string) string {
	base := strings.Join([]string{fullName, role, company, date.Format("2006-01-02")}, " - ")
	base = fileNameStrip.ReplaceAllString(base, "")
	base = strings.TrimSpace(fileNameSpace.ReplaceAllString(base, " "))
	return base + "." + ext
}

// NormalizePageSize returns PageA4 or PageLetter.
func NormalizePageSize(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), PageA4) {
		return PageA4
	}
	return PageLetter
}

// sanitize trims and drops markup from user-entered text.
func sanitize(s string) string {
	return strings.TrimSpace(parsing.Normalize(s))
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// labelled takes label, value pairs and keeps those with a value.
func labelled(pairs ...string) []string {
	var out []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			out = append(out, pairs[i]+": "+pairs[i+1])
		}
	}
	return out
}
