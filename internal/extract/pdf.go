package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"coverletter-backend/internal/shared/telemetry"
)

// pageSource yields the text of one page at a time.
type pageSource interface {
	NumPage() int
	PageText(i int) (string, error)
}

type pdfPages struct {
	r *pdf.Reader
}

func openPDF(data []byte) (pageSource, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return pdfPages{r: r}, nil
}

func (p pdfPages) NumPage() int {
	return p.r.NumPage()
}

// PageText reads page i (1-based). Malformed content streams make the
// pdf package panic, which is reported as an error for that page only.
func (p pdfPages) PageText(i int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", i, rec)
		}
	}()
	page := p.r.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		f := page.Font(name)
		fonts[name] = &f
	}
	return page.GetPlainText(fonts)
}

// extractPages walks at most maxPages pages, checking ctx between pages and
// skipping pages that fail. It errors only when no page yields text.
func extractPages(ctx context.Context, src pageSource, maxPages int) (string, error) {
	total := src.NumPage()
	limit := total
	if maxPages > 0 && limit > maxPages {
		limit = maxPages
	}

	var (
		buf     strings.Builder
		skipped int
		lastErr error
	)
	for i := 1; i <= limit; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := src.PageText(i)
		if err != nil {
			skipped++
			lastErr = err
			telemetry.Warn("extract.page_skipped", map[string]any{"page": i, "error": err})
			continue
		}
		if text = strings.TrimSpace(text); text == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}
	if total > limit {
		telemetry.Info("extract.page_limit", map[string]any{"pages": total, "read": limit})
	}
	if buf.Len() == 0 && skipped > 0 {
		return "", fmt.Errorf("%w: %v", ErrParse, lastErr)
	}
	return buf.String(), nil
}
