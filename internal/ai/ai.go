// Package ai proxies job-ad extraction and letter drafting to a completion
// provider, falling back to local heuristics where one exists.
package ai

import (
	"context"
	"errors"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

var (
	ErrDisabled      = errors.New("ai provider not configured")
	ErrQuotaExceeded = errors.New("ai quota exceeded")
	ErrInvalidOutput = errors.New("ai output does not match contract")
	ErrInvalidInput  = errors.New("invalid input")
)

// Completer sends one prompt and returns the raw JSON text of the reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Status reports whether AI calls should be attempted.
type Status struct {
	Enabled       bool   `json:"enabled"`
	QuotaExceeded bool   `json:"quotaExceeded"`
	Provider      string `json:"provider"`
}

// JobFields is the extraction contract for a job advertisement.
type JobFields struct {
	RoleTitle       string `json:"roleTitle"`
	CompanyName     string `json:"companyName"`
	ContactPerson   string `json:"contactPerson"`
	Reference       string `json:"reference"`
	BusinessAddress string `json:"businessAddress"`
	Source          string `json:"source"`
}

// Letter is the drafting contract for a three-part cover letter.
type Letter struct {
	Opening string `json:"opening"`
	Body    string `json:"body"`
	Closing string `json:"closing"`
}
