package placeholders

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHandlerApply(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler().RegisterRoutes(router.Group("/api/v1"))

	body, _ := json.Marshal(map[string]any{
		"text":   "Applying for [Role] at {Company}; ask [Contact] or [unknown].",
		"values": map[string]string{"role": "Analyst", "company": "Acme"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/placeholders/apply", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var out applyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Text != "Applying for Analyst at Acme; ask [Contact] or [unknown]." {
		t.Fatalf("unexpected text %q", out.Text)
	}
	if len(out.Unresolved) != 1 || out.Unresolved[0] != "[Contact]" {
		t.Fatalf("unexpected unresolved %v", out.Unresolved)
	}
}
