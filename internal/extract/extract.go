// Package extract pulls best-effort plain text out of uploaded documents.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MimePDF   = "application/pdf"
	MimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePlain = "text/plain"

	DefaultMaxPages = 20
	DefaultTimeout  = 30 * time.Second
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrParse           = errors.New("could not read document")
	ErrTimeout         = errors.New("document parsing timed out")
)

// TextExtractor turns document bytes of a declared type into text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType, fileName string) (string, error)
}

// Options bounds the work done per document.
type Options struct {
	MaxPages int
	Timeout  time.Duration
}

// Extractor is the default TextExtractor.
type Extractor struct {
	Opts Options
}

// New returns an Extractor, filling unset options with defaults.
func New(opts Options) *Extractor {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Extractor{Opts: opts}
}

// ExtractText extracts text within the configured deadline.
func (e *Extractor) ExtractText(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Opts.Timeout)
	defer cancel()

	text, err := extractText(ctx, data, mimeType, fileName, e.Opts.MaxPages)
	if errors.Is(err, context.DeadlineExceeded) {
		return "", ErrTimeout
	}
	return text, err
}

// ExtractTextFromBytes extracts text with default options.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	return New(Options{}).ExtractText(ctx, data, mimeType, fileName)
}

// Supported reports whether the declared type, or the file extension when
// the type is generic, names a format this package can read.
func Supported(mimeType, fileName string) bool {
	switch NormalizeMimeType(mimeType, fileName, nil) {
	case MimePDF, MimeDOCX, MimePlain:
		return true
	}
	return false
}

func extractText(ctx context.Context, data []byte, mimeType, fileName string, maxPages int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	normalized := NormalizeMimeType(mimeType, fileName, data)
	switch normalized {
	case MimePDF:
		src, err := openPDF(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrParse, err)
		}
		return extractPages(ctx, src, maxPages)
	case MimeDOCX:
		text, err := extractDOCX(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrParse, err)
		}
		return text, nil
	case MimePlain:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: text is not valid UTF-8", ErrParse)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, normalized)
	}
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString("\t")
			}
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// NormalizeMimeType resolves the effective document type from the declared
// type, the zip contents and the file extension.
func NormalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	ext := strings.ToLower(filepath.Ext(fileName))

	switch clean {
	case "application/zip":
		if mapped := mapOOXMLFromZip(data); mapped != "" {
			return mapped
		}
		if ext == ".docx" {
			return MimeDOCX
		}
		return clean
	case "text/markdown", "text/x-markdown":
		return MimePlain
	case "", "application/octet-stream":
		switch ext {
		case ".pdf":
			return MimePDF
		case ".docx":
			return MimeDOCX
		case ".txt", ".md":
			return MimePlain
		}
		if len(data) > 0 {
			return detected(data, clean)
		}
	}
	return clean
}

// detected maps sniffed content onto a supported type, or returns fallback.
func detected(data []byte, fallback string) string {
	mt := mimetype.Detect(data)
	for _, want := range []string{MimePDF, MimeDOCX, MimePlain} {
		if mt.Is(want) {
			return want
		}
	}
	return fallback
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		switch strings.ReplaceAll(f.Name, "\\", "/") {
		case "word/document.xml":
			return MimeDOCX
		case "xl/workbook.xml":
			return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case "ppt/presentation.xml":
			return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
		}
	}
	return ""
}
