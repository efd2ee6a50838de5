package resumes

import (
	"errors"
	"time"

	"coverletter-backend/internal/parsing"
	"coverletter-backend/internal/responses"
)

var ErrNotFound = errors.New("resume not found")

// Record is the current résumé of a user. Uploading replaces it wholesale.
type Record struct {
	UserID     string            `json:"-"`
	FileName   string            `json:"fileName"`
	FileSize   int64             `json:"fileSize"`
	MimeType   string            `json:"mimeType"`
	ObjectKey  string            `json:"-"`
	UploadDate time.Time         `json:"uploadDate"`
	ParsedText string            `json:"parsedText"`
	Keywords   []string          `json:"keywords"`
	Sections   map[string]string `json:"sections"`
}

// UploadResult is everything an upload produces.
type UploadResult struct {
	Resume          Record                   `json:"resume"`
	PersonalDetails *parsing.PersonalDetails `json:"personalDetails"`
	Suggestions     []responses.Response     `json:"suggestions"`
}
