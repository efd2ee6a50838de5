package responses

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		middleware.SetPrincipal(c, middleware.Principal{UserID: userID})
		c.Next()
	})
	NewHandler(newTestService()).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return payload.Error.Code
}

func TestHandlerCreateRequiresFields(t *testing.T) {
	router := newTestRouter(t, "user-1")

	resp := doJSON(t, router, http.MethodPost, "/api/v1/responses", map[string]any{"id": "r1", "text": "hi"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != "validation_error" {
		t.Fatalf("expected validation_error, got %s", code)
	}
}

func TestHandlerCRUDFlow(t *testing.T) {
	router := newTestRouter(t, "user-1")

	resp := doJSON(t, router, http.MethodPost, "/api/v1/responses", map[string]any{
		"id": "r1", "text": "Hello [Company Name]", "category": "User", "userCreated": true, "tags": []string{"opening"},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, router, http.MethodPost, "/api/v1/responses", map[string]any{"id": "r1", "text": "again", "category": "user"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodPut, "/api/v1/responses/r1", map[string]any{"text": "Updated"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var updated Response
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Text != "Updated" || updated.Category != CategoryUser || len(updated.Tags) != 1 {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	resp = doJSON(t, router, http.MethodGet, "/api/v1/responses?category=user", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var list []Response
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "r1" {
		t.Fatalf("unexpected list: %+v", list)
	}

	resp = doJSON(t, router, http.MethodDelete, "/api/v1/responses/r1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	resp = doJSON(t, router, http.MethodDelete, "/api/v1/responses/r1", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", resp.Code)
	}
}

func TestHandlerRejectsUnknownCategoryFilter(t *testing.T) {
	router := newTestRouter(t, "user-1")
	resp := doJSON(t, router, http.MethodGet, "/api/v1/responses?category=robots", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandlerPurgeRequiresSource(t *testing.T) {
	router := newTestRouter(t, "user-1")
	resp := doJSON(t, router, http.MethodDelete, "/api/v1/responses", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodDelete, "/api/v1/responses?source=resume-based", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
