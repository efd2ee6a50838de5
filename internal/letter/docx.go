package letter

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
)

// page sizes in twentieths of a point
var pageTwips = map[string][2]int{
	PageLetter: {12240, 15840},
	PageA4:     {11906, 16838},
}

// DOCXRenderer writes a minimal WordprocessingML package.
type DOCXRenderer struct{}

func (DOCXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
func (DOCXRenderer) Extension() string { return "docx" }

func (DOCXRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := documentXML(doc)
	if err != nil {
		return nil, err
	}

	var output bytes.Buffer
	writer := zip.NewWriter(&output)
	files := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", body},
	}
	for _, f := range files {
		w, err := writer.Create(f.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(f.content)); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

func documentXML(doc Document) (string, error) {
	var b strings.Builder
	b.WriteString(documentHead)

	para := func(text string, after int) error {
		fmt.Fprintf(&b, `<w:p><w:pPr><w:spacing w:after="%d"/></w:pPr><w:r><w:t xml:space="preserve">`, after)
		if err := xml.EscapeText(&b, []byte(text)); err != nil {
			return err
		}
		b.WriteString(`</w:t></w:r></w:p>`)
		return nil
	}
	block := func(lines []string) error {
		for i, line := range lines {
			after := 0
			if i == len(lines)-1 {
				after = 240
			}
			if err := para(line, after); err != nil {
				return err
			}
		}
		return nil
	}

	if err := block(doc.Sender); err != nil {
		return "", err
	}
	if err := block(doc.JobLines); err != nil {
		return "", err
	}
	if err := para(doc.Salutation, 240); err != nil {
		return "", err
	}
	for _, p := range doc.Paragraphs {
		if err := para(p, 240); err != nil {
			return "", err
		}
	}
	if err := block(doc.Signature); err != nil {
		return "", err
	}

	size, ok := pageTwips[doc.PageSize]
	if !ok {
		size = pageTwips[PageLetter]
	}
	fmt.Fprintf(&b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="720" w:right="720" w:bottom="720" w:left="720"/></w:sectPr>`, size[0], size[1])
	b.WriteString(`</w:body></w:document>`)
	return b.String(), nil
}
