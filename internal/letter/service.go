package letter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coverletter-backend/internal/shared/metrics"
)

var (
	ErrEmptyLetter       = errors.New("letter has no paragraphs")
	ErrUnknownFormat     = errors.New("unknown format")
	ErrFormatUnavailable = errors.New("format not available on this server")
)

// Output is a rendered letter ready for download.
type Output struct {
	Body        []byte
	ContentType string
	FileName    string
}

// Service renders letters through the configured renderers.
type Service struct {
	Renderers map[string]Renderer
	Now       func() time.Time
}

// NewService registers the text, HTML and DOCX renderers, plus pdf when given.
func NewService(pdf Renderer) *Service {
	renderers := map[string]Renderer{
		FormatText: TextRenderer{},
		FormatHTML: HTMLRenderer{},
		FormatDOCX: DOCXRenderer{},
	}
	if pdf != nil {
		renderers[FormatPDF] = pdf
	}
	return &Service{Renderers: renderers}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Render builds and renders a letter. An empty format means pdf.
func (s *Service) Render(ctx context.Context, in Input, format string) (Output, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPDF
	}
	switch format {
	case FormatPDF, FormatText, FormatHTML, FormatDOCX:
	default:
		return Output{}, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	r, ok := s.Renderers[format]
	if !ok {
		return Output{}, fmt.Errorf("%w: %s", ErrFormatUnavailable, format)
	}

	doc := Build(in)
	if len(doc.Paragraphs) == 0 {
		return Output{}, ErrEmptyLetter
	}
	body, err := r.Render(ctx, doc)
	if err != nil {
		return Output{}, err
	}
	metrics.IncLetterRendered(format)
	return Output{
		Body:        body,
		ContentType: r.ContentType(),
		FileName:    FileName(in.Profile.FullName(), in.Job.RoleTitle, in.Job.CompanyName, s.now(), r.Extension()),
	}, nil
}
