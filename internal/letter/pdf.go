package letter

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const defaultPDFTimeout = 30 * time.Second

// paper sizes in inches
var paperInches = map[string][2]float64{
	PageLetter: {8.5, 11},
	PageA4:     {8.27, 11.69},
}

// ChromePDFRenderer prints the HTML rendition through headless Chrome.
// Requires Chrome or Chromium on the host.
type ChromePDFRenderer struct {
	ExecPath string
	Timeout  time.Duration
}

func (r *ChromePDFRenderer) ContentType() string { return "application/pdf" }
func (r *ChromePDFRenderer) Extension() string   { return "pdf" }

func (r *ChromePDFRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	html, err := renderHTML(doc)
	if err != nil {
		return nil, err
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultPDFTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	paper, ok := paperInches[doc.PageSize]
	if !ok {
		paper = paperInches[PageLetter]
	}

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paper[0]).
				WithPaperHeight(paper[1]).
				WithMarginTop(0.5).
				WithMarginBottom(0.5).
				WithMarginLeft(0.5).
				WithMarginRight(0.5).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("pdf rendering failed: %w", err)
	}
	return pdf, nil
}
