package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>jane@example.com</w:t></w:r></w:p>`)

	text, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "resume.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if text != "Jane Doe\njane@example.com" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestExtractPlainTextByExtension(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), []byte("Jane Doe\nSkills"), "application/octet-stream", "cv.txt")
	if err != nil {
		t.Fatalf("ExtractTextFromBytes: %v", err)
	}
	if text != "Jane Doe\nSkills" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractCorruptPDFIsParseError(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("%PDF-1.4 garbage"), MimePDF, "cv.pdf")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestSupported(t *testing.T) {
	cases := []struct {
		mime string
		name string
		want bool
	}{
		{MimePDF, "a.pdf", true},
		{MimeDOCX, "a.docx", true},
		{"text/plain", "a.txt", true},
		{"", "resume.pdf", true},
		{"image/png", "photo.png", false},
		{"application/msword", "old.doc", false},
		{"application/octet-stream", "x", false},
	}
	for _, tc := range cases {
		if got := Supported(tc.mime, tc.name); got != tc.want {
			t.Fatalf("Supported(%q, %q) = %v, want %v", tc.mime, tc.name, got, tc.want)
		}
	}
}

type fakePages struct {
	pages  []string
	failAt map[int]bool
	onPage func(i int)
}

func (f fakePages) NumPage() int { return len(f.pages) }

func (f fakePages) PageText(i int) (string, error) {
	if f.onPage != nil {
		f.onPage(i)
	}
	if f.failAt[i] {
		return "", errors.New("bad page")
	}
	return f.pages[i-1], nil
}

func TestExtractPagesSkipsFailedPagesAndCaps(t *testing.T) {
	src := fakePages{
		pages:  []string{"one", "two", "three", "four"},
		failAt: map[int]bool{2: true},
	}
	text, err := extractPages(context.Background(), src, 3)
	if err != nil {
		t.Fatalf("extractPages: %v", err)
	}
	if text != "one\nthree" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractPagesAllFailedIsParseError(t *testing.T) {
	src := fakePages{pages: []string{"a", "b"}, failAt: map[int]bool{1: true, 2: true}}
	if _, err := extractPages(context.Background(), src, 0); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestExtractPagesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := fakePages{
		pages: []string{"a", "b", "c"},
		onPage: func(i int) {
			if i == 1 {
				cancel()
			}
		},
	}
	if _, err := extractPages(ctx, src, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractorMapsDeadlineToTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	_, err := New(Options{}).ExtractText(ctx, []byte("hello"), MimePlain, "a.txt")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestNormalizeMimeTypeSniffsGenericUploads(t *testing.T) {
	if got := NormalizeMimeType("application/octet-stream", "resume", []byte("Jane Doe\nExperience")); got != MimePlain {
		t.Fatalf("expected text sniffed, got %q", got)
	}
	if got := NormalizeMimeType("", "resume", []byte("%PDF-1.7\n%...")); got != MimePDF {
		t.Fatalf("expected pdf sniffed, got %q", got)
	}
}
