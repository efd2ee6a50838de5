package jobads

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
)

// maxAdBytes bounds pasted text or HTML.
const maxAdBytes = 512 << 10

// Handler serves the local job-ad extractor.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches job-ad routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/job-ads/parse", h.parse)
}

type parseRequest struct {
	Text      string `json:"text"`
	HTML      string `json:"html"`
	SourceURL string `json:"sourceUrl"`
	Form      *Form  `json:"form"`
	Override  bool   `json:"override"`
}

type parseResponse struct {
	Fields  Fields   `json:"fields"`
	Board   string   `json:"board,omitempty"`
	Form    *Form    `json:"form,omitempty"`
	Changed []string `json:"changed,omitempty"`
}

func (h *Handler) parse(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAdBytes)
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	text := req.Text
	if strings.TrimSpace(req.HTML) != "" {
		converted, err := TextFromHTML(req.HTML, req.SourceURL)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "html could not be parsed", nil)
			return
		}
		text = converted
	}
	if strings.TrimSpace(text) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text or html is required", nil)
		return
	}

	resp := parseResponse{
		Fields: Extract(text, req.SourceURL),
		Board:  BoardFor(req.SourceURL),
	}
	if resp.Board != "" {
		c.Set(middleware.LogBoard, resp.Board)
	}
	if req.Form != nil {
		merged, changed := Merge(*req.Form, resp.Fields, req.Override)
		resp.Form = &merged
		resp.Changed = changed
	}
	metrics.IncJobAdParsed()
	respond.OK(c, resp)
}
