package ai

import (
	"errors"
	"net/http"

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

// RegisterRoutes attaches AI routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ai/status", h.status)
	rg.POST("/ai/extract-job", h.extractJob)
	rg.POST("/ai/generate-letter", h.generateLetter)
}

type extractJobRequest struct {
	Text      string `json:"text"`
	SourceURL string `json:"sourceUrl"`
}

type generateLetterRequest struct {
	Text        string `json:"text"`
	RoleTitle   string `json:"roleTitle"`
	CompanyName string `json:"companyName"`
}

func (h *Handler) status(c *gin.Context) {
	respond.OK(c, h.Svc.Status(c.Request.Context()))
}

func (h *Handler) extractJob(c *gin.Context) {
	var req extractJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set(middleware.LogProvider, h.Svc.provider())

	fields, err := h.Svc.ExtractJob(c.Request.Context(), req.Text, req.SourceURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(middleware.LogOutcome, fields.Source)
	respond.OK(c, fields)
}

func (h *Handler) generateLetter(c *gin.Context) {
	var req generateLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set(middleware.LogProvider, h.Svc.provider())

	letter, err := h.Svc.GenerateLetter(c.Request.Context(), req.Text, req.RoleTitle, req.CompanyName)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(middleware.LogOutcome, "generated")
	respond.OK(c, letter)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
	case errors.Is(err, ErrQuotaExceeded):
		c.Set(middleware.LogOutcome, "quota_exceeded")
		respond.Error(c, http.StatusServiceUnavailable, "ai_unavailable", "AI quota exhausted; check status later", gin.H{"quotaExceeded": true})
	case errors.Is(err, ErrDisabled):
		respond.Error(c, http.StatusServiceUnavailable, "ai_unavailable", "AI provider is not configured", gin.H{"quotaExceeded": false})
	default:
		c.Set(middleware.LogOutcome, "failed")
		respond.Error(c, http.StatusServiceUnavailable, "ai_unavailable", "AI request failed", gin.H{"quotaExceeded": false})
	}
}
