package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSections(t *testing.T) {
	text := "Education\nBachelor of Nursing, UTS\nExperience\nRegistered Nurse at Westmead\nSkills\nTriage, wound care"
	got := ExtractSections(text)

	assert.Equal(t, map[string]string{
		SectionEducation:  "Bachelor of Nursing, UTS",
		SectionExperience: "Registered Nurse at Westmead",
		SectionSkills:     "Triage, wound care",
	}, got)
}

func TestExtractSections_WorkHistoryHeading(t *testing.T) {
	got := ExtractSections("Work History: Barista at Bean Co\nEducation: Certificate III in Hospitality")
	assert.Equal(t, "Barista at Bean Co", got[SectionExperience])
	assert.Equal(t, "Certificate III in Hospitality", got[SectionEducation])
	assert.NotContains(t, got, SectionSkills)
}

func TestExtractSections_NoHeadings(t *testing.T) {
	assert.Empty(t, ExtractSections("just a paragraph about me"))
}
