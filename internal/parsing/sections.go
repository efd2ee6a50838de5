package parsing

import (
	"regexp"
	"strings"
)

// Section names used as keys of ExtractSections' result.
const (
	SectionEducation  = "education"
	SectionExperience = "experience"
	SectionSkills     = "skills"
)

var sectionPatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{SectionEducation, regexp.MustCompile(`(?is)\beducation\b[:\s]*(.*?)(?:\b(?:experience|work|employment|skills)\b|\z)`)},
	{SectionExperience, regexp.MustCompile(`(?is)\b(?:experience|work|employment)\b[:\s]*(?:(?:experience|history)\b[:\s]*)?(.*?)(?:\b(?:education|skills)\b|\z)`)},
	{SectionSkills, regexp.MustCompile(`(?is)\bskills\b[:\s]*(.*?)(?:\b(?:education|experience|work|employment)\b|\z)`)},
}

// ExtractSections captures the first education, experience and skills spans.
// Sections that are missing or empty are omitted.
func ExtractSections(text string) map[string]string {
	sections := map[string]string{}
	for _, s := range sectionPatterns {
		m := s.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if body := strings.TrimSpace(m[1]); body != "" {
			sections[s.name] = body
		}
	}
	return sections
}
