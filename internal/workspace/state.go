// Package workspace is the client-side state of one letter writer: profile,
// response library, résumé, current letter and settings, persisted as JSON
// blobs in a key/value store.
package workspace

import (
	"slices"
	"time"

	"coverletter-backend/internal/jobads"
	"coverletter-backend/internal/profile"
	"coverletter-backend/internal/responses"
	"coverletter-backend/internal/resumes"
)

// Persisted keys.
const (
	KeyProfile      = "userProfile"
	KeyResponses    = "responses"
	KeyResume       = "resumeData"
	KeyLetter       = "currentLetter"
	KeySettings     = "settings"
	KeySavedLetters = "savedLetters"
)

var allKeys = []string{KeyProfile, KeyResponses, KeyResume, KeyLetter, KeySettings, KeySavedLetters}

// Letter is the letter being assembled: ordered response ids plus the job.
type Letter struct {
	Paragraphs []string    `json:"paragraphs"`
	Job        jobads.Form `json:"job"`
}

type Settings struct {
	Theme    string `json:"theme"`
	PageSize string `json:"pageSize"`
}

// SavedLetter is a named snapshot of a letter.
type SavedLetter struct {
	Name       string      `json:"name"`
	JobInfo    jobads.Form `json:"jobInfo"`
	Paragraphs []string    `json:"paragraphs"`
	SavedAt    time.Time   `json:"savedAt"`
}

// State is the single source of truth for a workspace.
type State struct {
	Profile      profile.Profile      `json:"profile"`
	Responses    []responses.Response `json:"responses"`
	Resume       *resumes.Record      `json:"resume,omitempty"`
	Letter       Letter               `json:"letter"`
	Settings     Settings             `json:"settings"`
	SavedLetters []SavedLetter        `json:"savedLetters"`
}

// Response returns the library entry with id.
func (s State) Response(id string) (responses.Response, bool) {
	for _, r := range s.Responses {
		if r.ID == id {
			return r, true
		}
	}
	return responses.Response{}, false
}

// LetterTexts resolves the letter's paragraph ids to text, skipping ids no
// longer in the library.
func (s State) LetterTexts() []string {
	out := make([]string, 0, len(s.Letter.Paragraphs))
	for _, id := range s.Letter.Paragraphs {
		if r, ok := s.Response(id); ok {
			out = append(out, r.Text)
		}
	}
	return out
}

func (s State) clone() State {
	out := s
	out.Responses = make([]responses.Response, len(s.Responses))
	for i, r := range s.Responses {
		r.Tags = slices.Clone(r.Tags)
		out.Responses[i] = r
	}
	if s.Resume != nil {
		rec := *s.Resume
		rec.Keywords = slices.Clone(rec.Keywords)
		if rec.Sections != nil {
			sections := make(map[string]string, len(rec.Sections))
			for k, v := range rec.Sections {
				sections[k] = v
			}
			rec.Sections = sections
		}
		out.Resume = &rec
	}
	out.Letter.Paragraphs = slices.Clone(s.Letter.Paragraphs)
	out.SavedLetters = make([]SavedLetter, len(s.SavedLetters))
	for i, l := range s.SavedLetters {
		l.Paragraphs = slices.Clone(l.Paragraphs)
		out.SavedLetters[i] = l
	}
	return out
}
