package placeholders

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/respond"
)

// Handler serves placeholder substitution.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches placeholder routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/placeholders/apply", h.apply)
}

type applyRequest struct {
	Text   string `json:"text"`
	Values Values `json:"values"`
}

type applyResponse struct {
	Text       string   `json:"text"`
	Unresolved []string `json:"unresolved"`
}

func (h *Handler) apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	out := Apply(req.Text, req.Values)
	unresolved := Tokens(out)
	if unresolved == nil {
		unresolved = []string{}
	}
	respond.OK(c, applyResponse{Text: out, Unresolved: unresolved})
}
