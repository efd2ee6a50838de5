package letter

import (
	"bytes"
	"context"
	"html/template"
	"strings"
)

const (
	FormatPDF  = "pdf"
	FormatText = "text"
	FormatHTML = "html"
	FormatDOCX = "docx"
)

// Renderer turns a laid-out Document into file bytes.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// TextRenderer writes the letter as plain text, blocks separated by a
// blank line.
type TextRenderer struct{}

func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }
func (TextRenderer) Extension() string   { return "txt" }

func (TextRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var blocks []string
	if len(doc.Sender) > 0 {
		blocks = append(blocks, strings.Join(doc.Sender, "\n"))
	}
	if len(doc.JobLines) > 0 {
		blocks = append(blocks, strings.Join(doc.JobLines, "\n"))
	}
	blocks = append(blocks, doc.Salutation)
	blocks = append(blocks, doc.Paragraphs...)
	if len(doc.Signature) > 0 {
		blocks = append(blocks, strings.Join(doc.Signature, "\n"))
	}
	return []byte(strings.Join(blocks, "\n\n") + "\n"), nil
}

var htmlTemplate = template.Must(template.New("letter").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: {{.PageCSS}}; margin: 0.5in; }
body { font-family: "Segoe UI", sans-serif; font-size: 12pt; line-height: 1.5; color: #000; background: #fff; }
p { margin: 0 0 12px; }
.block { margin-bottom: 24px; }
.block p { margin: 0; }
.salutation { margin-bottom: 16px; }
.signature { margin-top: 30px; }
</style>
</head>
<body>
{{- if .Sender}}
<div class="block">{{range .Sender}}<p>{{.}}</p>{{end}}</div>
{{- end}}
{{- if .JobLines}}
<div class="block">{{range .JobLines}}<p>{{.}}</p>{{end}}</div>
{{- end}}
<p class="salutation">{{.Salutation}}</p>
{{- range .Paragraphs}}
<p>{{.}}</p>
{{- end}}
{{- if .Signature}}
<div class="signature">{{range .Signature}}<p>{{.}}</p>{{end}}</div>
{{- end}}
</body>
</html>
`))

type htmlView struct {
	Document
	PageCSS string
}

// HTMLRenderer writes a standalone, printable HTML page.
type HTMLRenderer struct{}

func (HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }
func (HTMLRenderer) Extension() string   { return "html" }

func (HTMLRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return renderHTML(doc)
}

func renderHTML(doc Document) ([]byte, error) {
	view := htmlView{Document: doc, PageCSS: "letter"}
	if doc.PageSize == PageA4 {
		view.PageCSS = "A4"
	}
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
