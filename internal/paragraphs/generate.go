// Package paragraphs turns résumé extraction results into suggested
// cover-letter paragraphs by filling fixed templates.
package paragraphs

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"coverletter-backend/internal/responses"
)

// Input is what the generator needs from a parsed résumé.
type Input struct {
	Keywords  []string
	HasSkills bool
	Text      string
}

// maxListed caps how many keywords a template names.
const maxListed = 3

var yearsPhrase = regexp.MustCompile(`(?i)\b(\d{1,2})\+?\s+years?\s+of\s+experience\b`)

type template struct {
	name  string
	apply func(in Input, lowerText string) (string, bool)
}

// templates run in order; each decides for itself whether it applies.
var templates = []template{
	{"experience-opening", func(in Input, _ string) (string, bool) {
		if len(in.Keywords) == 0 {
			return "", false
		}
		return fmt.Sprintf("I am excited to apply for the [Role Title] position at [Company Name]. My background in %s has prepared me to contribute from day one.", listPhrase(in.Keywords)), true
	}},
	{"skills", func(in Input, _ string) (string, bool) {
		if !in.HasSkills {
			return "", false
		}
		return "My skill set aligns closely with the requirements of this role. I have applied these skills in practical settings and continue to build on them, and I am confident they would add value to [Company Name].", true
	}},
	{"education", func(_ Input, lower string) (string, bool) {
		if !strings.Contains(lower, "degree") && !strings.Contains(lower, "certified") {
			return "", false
		}
		return "My formal qualifications have given me a solid theoretical foundation, which I have combined with hands-on experience to deliver reliable results.", true
	}},
	{"leadership", func(in Input, _ string) (string, bool) {
		for _, k := range in.Keywords {
			k = strings.ToLower(k)
			if strings.Contains(k, "lead") || strings.Contains(k, "manager") || strings.Contains(k, "supervisor") {
				return "I have led and supported teams through changing priorities, and I enjoy helping colleagues do their best work while keeping delivery on track.", true
			}
		}
		return "", false
	}},
	{"years-of-experience", func(in Input, _ string) (string, bool) {
		m := yearsPhrase.FindStringSubmatch(in.Text)
		if m == nil {
			return "", false
		}
		return fmt.Sprintf("With %s years of experience in the field, I bring a depth of practical knowledge that would allow me to make an immediate impact as your [Role Title].", m[1]), true
	}},
	{"achievements", func(_ Input, lower string) (string, bool) {
		if !strings.Contains(lower, "project") && !strings.Contains(lower, "achieved") {
			return "", false
		}
		return "Throughout my career I have delivered projects that achieved measurable outcomes, and I take pride in seeing work through from planning to completion.", true
	}},
	{"closing", func(Input, string) (string, bool) {
		return "Thank you for considering my application. I would welcome the opportunity to discuss how my experience can support the goals of [Company Name].", true
	}},
}

// Generate fills every applicable template. Results are tagged as AI
// suggestions sourced from the résumé, with ids derived from now.
func Generate(in Input, now time.Time) []responses.Response {
	lower := strings.ToLower(in.Text)
	stamp := now.UnixMilli()
	out := make([]responses.Response, 0, len(templates))
	for _, t := range templates {
		text, ok := t.apply(in, lower)
		if !ok {
			continue
		}
		out = append(out, responses.Response{
			ID:        fmt.Sprintf("resume-%d-%d", stamp, len(out)),
			Text:      text,
			Category:  responses.CategoryAI,
			Source:    responses.SourceResumeBased,
			Tags:      []string{t.name},
			CreatedAt: now.UTC(),
		})
	}
	return out
}

// Replace drops every previously generated résumé paragraph from library
// and appends generated.
func Replace(library, generated []responses.Response) []responses.Response {
	out := responses.WithoutSource(library, responses.SourceResumeBased)
	return append(out, generated...)
}

func listPhrase(keywords []string) string {
	n := len(keywords)
	if n > maxListed {
		n = maxListed
	}
	items := keywords[:n]
	switch len(items) {
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
