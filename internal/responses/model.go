package responses

import (
	"strings"
	"time"
)

// Category says where a response came from.
type Category string

const (
	CategoryUser  Category = "user"
	CategoryCrowd Category = "crowd"
	CategoryAI    Category = "ai"
)

// SourceResumeBased tags paragraphs generated from the current résumé.
const SourceResumeBased = "resume-based"

// Response is a reusable cover-letter paragraph.
type Response struct {
	ID          string    `json:"id" validate:"required,max=200"`
	UserID      string    `json:"-"`
	Text        string    `json:"text" validate:"required"`
	Category    Category  `json:"category" validate:"required,oneof=user crowd ai"`
	UserCreated bool      `json:"userCreated"`
	Source      string    `json:"source,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Patch carries a partial update; nil fields are left unchanged.
type Patch struct {
	Text        *string   `json:"text"`
	Category    *Category `json:"category"`
	UserCreated *bool     `json:"userCreated"`
	Source      *string   `json:"source"`
	Tags        []string  `json:"tags"`
}

// ParseCategory normalizes a category name, returning false if unknown.
func ParseCategory(raw string) (Category, bool) {
	switch c := Category(strings.ToLower(strings.TrimSpace(raw))); c {
	case CategoryUser, CategoryCrowd, CategoryAI:
		return c, true
	}
	return "", false
}

// CleanTags trims tags and drops empties and duplicates, keeping order.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// WithoutSource returns the responses whose source is not source.
func WithoutSource(list []Response, source string) []Response {
	out := make([]Response, 0, len(list))
	for _, r := range list {
		if r.Source != source {
			out = append(out, r)
		}
	}
	return out
}
