package letter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches letter routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/letters/render", h.render)
}

type renderRequest struct {
	Input
	Format string `json:"format"`
}

func (h *Handler) render(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	out, err := h.Svc.Render(c.Request.Context(), req.Input, req.Format)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownFormat):
			respond.Error(c, http.StatusBadRequest, "validation_error", "format must be one of pdf, text, html, docx", nil)
		case errors.Is(err, ErrEmptyLetter):
			respond.Error(c, http.StatusBadRequest, "validation_error", "add at least one paragraph", nil)
		case errors.Is(err, ErrFormatUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, "renderer_unavailable", err.Error(), nil)
		default:
			respond.Internal(c, "failed to render letter", err)
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.FileName))
	c.Data(http.StatusOK, out.ContentType, out.Body)
}
