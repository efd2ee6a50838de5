package resumes

import (
	"time"

	"coverletter-backend/internal/paragraphs"
	"coverletter-backend/internal/parsing"
)

// Analyze builds a Record from extracted résumé text.
func Analyze(kw *parsing.KeywordExtractor, text, fileName string, size int64, now time.Time) Record {
	normalized := parsing.Normalize(text)
	var keywords []string
	if kw != nil {
		keywords = kw.Extract(normalized)
	} else {
		keywords = parsing.ExtractKeywords(normalized)
	}
	if keywords == nil {
		keywords = []string{}
	}
	return Record{
		FileName:   fileName,
		FileSize:   size,
		UploadDate: now.UTC(),
		ParsedText: normalized,
		Keywords:   keywords,
		Sections:   parsing.ExtractSections(normalized),
	}
}

// GeneratorInput adapts a Record for the paragraph generator.
func (r Record) GeneratorInput() paragraphs.Input {
	_, hasSkills := r.Sections[parsing.SectionSkills]
	return paragraphs.Input{
		Keywords:  r.Keywords,
		HasSkills: hasSkills,
		Text:      r.ParsedText,
	}
}
