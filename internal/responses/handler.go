package responses

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches response routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/responses", h.list)
	rg.POST("/responses", h.create)
	rg.PUT("/responses/:id", h.update)
	rg.DELETE("/responses/:id", h.delete)
	rg.DELETE("/responses", h.purge)
}

type createRequest struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Category    string   `json:"category"`
	UserCreated bool     `json:"userCreated"`
	Source      string   `json:"source"`
	Tags        []string `json:"tags"`
}

type updateRequest struct {
	Text        *string  `json:"text"`
	Category    *string  `json:"category"`
	UserCreated *bool    `json:"userCreated"`
	Source      *string  `json:"source"`
	Tags        []string `json:"tags"`
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var category Category
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		parsed, ok := ParseCategory(raw)
		if !ok {
			respond.Error(c, http.StatusBadRequest, "validation_error", "category must be one of user, crowd, ai", nil)
			return
		}
		category = parsed
	}

	list, err := h.Svc.List(c.Request.Context(), userID, category)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, list)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Text) == "" || strings.TrimSpace(req.Category) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "id, text, and category are required", nil)
		return
	}

	created, err := h.Svc.Create(c.Request.Context(), userID, Response{
		ID:          req.ID,
		Text:        req.Text,
		Category:    Category(strings.ToLower(strings.TrimSpace(req.Category))),
		UserCreated: req.UserCreated,
		Source:      req.Source,
		Tags:        req.Tags,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, created)
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	patch := Patch{Text: req.Text, UserCreated: req.UserCreated, Source: req.Source, Tags: req.Tags}
	if req.Category != nil {
		cat := Category(strings.ToLower(strings.TrimSpace(*req.Category)))
		patch.Category = &cat
	}

	c.Set(middleware.LogResponseID, c.Param("id"))
	updated, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, updated)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Set(middleware.LogResponseID, c.Param("id"))
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	respond.Done(c)
}

func (h *Handler) purge(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	source := strings.TrimSpace(c.Query("source"))
	if source == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "source is required", nil)
		return
	}
	n, err := h.Svc.PurgeSource(c.Request.Context(), userID, source)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, gin.H{"ok": true, "deleted": n})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "response not found", nil)
	case errors.Is(err, ErrDuplicate):
		respond.Error(c, http.StatusConflict, "duplicate", "a response with this id already exists", nil)
	default:
		respond.Internal(c, "failed to process response request", err)
	}
}
