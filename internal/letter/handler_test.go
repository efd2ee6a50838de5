package letter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type stubPDF struct{ err error }

func (s stubPDF) ContentType() string { return "application/pdf" }
func (s stubPDF) Extension() string   { return "pdf" }
func (s stubPDF) Render(context.Context, Document) ([]byte, error) {
	return []byte("%PDF-1.7 stub"), s.err
}

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc.Now = func() time.Time { return time.Date(2026, time.April, 5, 9, 0, 0, 0, time.UTC) }
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func postRender(router http.Handler, body map[string]any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/letters/render", &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func letterBody(format string) map[string]any {
	return map[string]any{
		"profile":    map[string]string{"firstName": "Jane", "lastName": "Citizen"},
		"job":        map[string]string{"roleTitle": "Analyst", "companyName": "Acme"},
		"paragraphs": []string{"I would like to join [company]."},
		"format":     format,
	}
}

func TestRenderTextDownload(t *testing.T) {
	router := newTestRouter(NewService(nil))

	resp := postRender(router, letterBody("text"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="Jane Citizen - Analyst - Acme - 2026-04-05.txt"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte("I would like to join Acme.")) {
		t.Fatalf("expected placeholder applied, got %q", resp.Body.String())
	}
}

func TestRenderPDFDefaultFormat(t *testing.T) {
	router := newTestRouter(NewService(stubPDF{}))

	resp := postRender(router, letterBody(""))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestRenderErrors(t *testing.T) {
	empty := letterBody("text")
	empty["paragraphs"] = []string{" "}

	cases := []struct {
		name   string
		svc    *Service
		body   map[string]any
		status int
	}{
		{"unknown format", NewService(nil), letterBody("rtf"), http.StatusBadRequest},
		{"empty letter", NewService(nil), empty, http.StatusBadRequest},
		{"pdf unavailable", NewService(nil), letterBody("pdf"), http.StatusServiceUnavailable},
		{"renderer failure", NewService(stubPDF{err: errors.New("chrome missing")}), letterBody("pdf"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postRender(newTestRouter(tc.svc), tc.body)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
		})
	}
}
