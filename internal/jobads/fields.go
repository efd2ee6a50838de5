// Package jobads recovers role, company, contact and reference fields from
// pasted job-advertisement text.
package jobads

import (
	"regexp"
	"strings"
	"unicode"

	"coverletter-backend/internal/parsing"
)

// maxFieldLength caps every extracted field.
const maxFieldLength = 100

// Fields is the extractor output. Empty strings mean "not found".
type Fields struct {
	RoleTitle       string `json:"roleTitle"`
	CompanyName     string `json:"companyName"`
	ContactPerson   string `json:"contactPerson"`
	RefNumber       string `json:"refNumber"`
	BusinessAddress string `json:"businessAddress,omitempty"`
}

const (
	refToken    = `([A-Za-z0-9][A-Za-z0-9_/-]{2,})`
	contactName = `[A-Z][a-z]+(?:[ \t]+[A-Z][A-Za-z'’-]*[a-z]){0,2}`
	// companyWord allows inner dots ("Acme.io") but stops at a full stop.
	companyWord = `[A-Z][A-Za-z0-9&'-]*(?:\.[A-Za-z0-9&'-]+)*`
)

var refPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:reference|ref)\.?[ \t]*(?:no\.?|number|num|#|id)[ \t]*[:#.-]?[ \t]*` + refToken),
	regexp.MustCompile(`(?i)\b(?:job[ \t]*(?:id|ref(?:erence)?|no\.?|number)|reference|ref)[ \t]*[:#][ \t]*` + refToken),
}

var contactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:contact(?:[ \t]+person)?|hiring[ \t]+manager|recruiter|recruitment[ \t]+(?:officer|consultant|team|manager))[ \t]*:[ \t]*(` + contactName + `)`),
	regexp.MustCompile(`(?i:please[ \t]+contact)[ \t]+(` + contactName + `)`),
	regexp.MustCompile(`(?i:for[ \t]+further[ \t]+information)[^.\n]{0,80}?(?i:contact)[ \t]+(` + contactName + `)`),
}

var (
	companyLabel  = regexp.MustCompile(`(?im)^[ \t]*(?:company|employer|organisation|organization)[ \t]*:[ \t]*(.+)$`)
	companyAtWith = regexp.MustCompile(`\b(?:at|with)[ \t]+(` + companyWord + `(?:[ \t]+(?:` + companyWord + `|&|of|and))*)`)
	emailDomain   = regexp.MustCompile(`[A-Za-z0-9._%+-]+@([A-Za-z0-9.-]+\.[A-Za-z]{2,})`)
	roleLabel     = regexp.MustCompile(`(?im)^[ \t]*(?:role|position|job[ \t]+title|job|title)[ \t]*:[ \t]*(.+)$`)
	roleSeeking   = regexp.MustCompile(`(?i)\b(?:seeking|looking[ \t]+for|hiring)[ \t]+(?:an?[ \t]+)?([^.,;:!?\n]+?)(?:[ \t]+(?:at|with|for|to|who|in)\b|[.,;:!?\n]|\z)`)
)

// genericDomainParts are dropped when deriving a company from an email domain.
var genericDomainParts = map[string]bool{
	"com": true, "au": true, "uk": true, "co": true, "org": true, "io": true, "net": true,
}

// freeMailDomains never name an employer.
var freeMailDomains = map[string]bool{
	"gmail": true, "outlook": true, "hotmail": true, "yahoo": true, "icloud": true, "bigpond": true,
}

var trailingConnectors = map[string]bool{"and": true, "of": true, "&": true}

// Extract runs the generic pass and then the board strategy matching
// sourceHint, if any.
func Extract(text, sourceHint string) Fields {
	text = parsing.Normalize(text)
	lines := nonEmptyLines(text)

	f := Fields{
		RefNumber:     extractRef(text),
		CompanyName:   extractCompany(text),
		RoleTitle:     extractRole(text, lines),
		ContactPerson: extractContact(text),
	}

	if board := boardFor(sourceHint); board != nil {
		f = board.apply(f, text, lines)
	}
	return clean(f)
}

func extractRef(text string) string {
	for _, p := range refPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func extractCompany(text string) string {
	if m := companyLabel.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := companyAtWith.FindStringSubmatch(text); m != nil {
		if name := trimConnectors(m[1]); name != "" {
			return name
		}
	}
	return companyFromEmail(text)
}

func companyFromEmail(text string) string {
	for _, m := range emailDomain.FindAllStringSubmatch(text, -1) {
		var parts []string
		for _, seg := range strings.Split(strings.ToLower(m[1]), ".") {
			if seg == "" || genericDomainParts[seg] {
				continue
			}
			parts = append(parts, strings.ReplaceAll(seg, "-", " "))
		}
		if len(parts) == 0 || freeMailDomains[parts[0]] {
			continue
		}
		return parsing.TitleCase(strings.Join(parts, " "))
	}
	return ""
}

func extractRole(text string, lines []string) string {
	if m := roleLabel.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if len(lines) > 0 && plausibleHeadline(lines[0]) {
		return lines[0]
	}
	if m := roleSeeking.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractContact(text string) string {
	for _, p := range contactPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// plausibleHeadline accepts a short, mostly alphabetic line that does not
// read like a sentence or a section heading.
func plausibleHeadline(line string) bool {
	if len(line) < 3 || len(line) > 80 || strings.Contains(line, "@") {
		return false
	}
	if strings.HasSuffix(line, ".") || strings.HasSuffix(line, ":") {
		return false
	}
	if len(strings.Fields(line)) > 10 {
		return false
	}
	lower := strings.ToLower(line)
	for _, prefix := range []string{"about ", "job description", "we are", "our client", "description"} {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	letters, total := 0, 0
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return total > 0 && float64(letters)/float64(total) >= 0.7
}

func trimConnectors(phrase string) string {
	words := strings.Fields(phrase)
	for len(words) > 0 && trailingConnectors[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	return strings.TrimRight(strings.Join(words, " "), ".")
}

func clean(f Fields) Fields {
	norm := func(s string) string {
		return parsing.Truncate(parsing.CollapseWhitespace(s), maxFieldLength)
	}
	f.RoleTitle = norm(f.RoleTitle)
	f.CompanyName = norm(f.CompanyName)
	f.ContactPerson = norm(f.ContactPerson)
	f.RefNumber = norm(f.RefNumber)
	f.BusinessAddress = norm(f.BusinessAddress)
	return f
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
