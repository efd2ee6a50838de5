package jobads

import (
	"regexp"
	"strings"
)

// board is a per-site correction layered on the generic pass. Strategies
// are selected by a substring of the source hint; unknown sources keep the
// generic result.
type board struct {
	name   string
	domain string
	apply  func(f Fields, text string, lines []string) Fields
}

var boards = []board{
	{name: "seek", domain: "seek.com", apply: applySeek},
	{name: "indeed", domain: "indeed.", apply: applyIndeed},
	{name: "linkedin", domain: "linkedin.", apply: applyLinkedIn},
}

var (
	seekCompany = regexp.MustCompile(`\b(?:at|with)[ \t]+([A-Z][^\n|.,)]*?)(?:[ \t]+(?:on|in|for)\b|[ \t]*[|.,)]|\n|\z)`)
	seekRef     = regexp.MustCompile(`(?i)\b(?:job|reference|ref|req)\.?[ \t]*(?:no\.?|number|id)[ \t]*[:#.]?[ \t]*` + refToken)
	boardJobRef = regexp.MustCompile(`(?i)\b(?:job|req(?:uisition)?)[ \t]*id[ \t]*[:#]?[ \t]*` + refToken)
)

// BoardFor names the board strategy that would handle sourceHint, or "".
func BoardFor(sourceHint string) string {
	if b := boardFor(sourceHint); b != nil {
		return b.name
	}
	return ""
}

func boardFor(sourceHint string) *board {
	hint := strings.ToLower(strings.TrimSpace(sourceHint))
	if hint == "" {
		return nil
	}
	for i := range boards {
		if strings.Contains(hint, boards[i].domain) {
			return &boards[i]
		}
	}
	return nil
}

func applySeek(f Fields, text string, lines []string) Fields {
	if f.RoleTitle == "" && len(lines) > 0 && plausibleHeadline(lines[0]) {
		f.RoleTitle = lines[0]
	}
	// Seek's company match replaces the generic at/with guess. Only an
	// explicit company label beats it.
	if f.CompanyName == "" || !companyLabel.MatchString(text) {
		if m := seekCompany.FindStringSubmatch(text); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				f.CompanyName = name
			}
		}
	}
	if f.RefNumber == "" {
		if m := seekRef.FindStringSubmatch(text); m != nil {
			f.RefNumber = m[1]
		}
	}
	return f
}

// applyIndeed trusts a "Role - Company" headline over the generic guesses.
func applyIndeed(f Fields, text string, lines []string) Fields {
	if len(lines) > 0 {
		if role, company, ok := strings.Cut(lines[0], " - "); ok {
			if role = strings.TrimSpace(role); role != "" {
				f.RoleTitle = role
			}
			if company = strings.TrimSpace(company); company != "" {
				f.CompanyName = company
			}
		}
	}
	if f.RefNumber == "" {
		if m := boardJobRef.FindStringSubmatch(text); m != nil {
			f.RefNumber = m[1]
		}
	}
	return f
}

// applyLinkedIn reads the role from the first line and the company from
// the second.
func applyLinkedIn(f Fields, text string, lines []string) Fields {
	if len(lines) > 0 {
		f.RoleTitle = lines[0]
	}
	if len(lines) > 1 && !strings.EqualFold(strings.TrimSpace(lines[1]), "about the job") {
		f.CompanyName = lines[1]
	}
	if f.RefNumber == "" {
		if m := boardJobRef.FindStringSubmatch(text); m != nil {
			f.RefNumber = m[1]
		}
	}
	return f
}
