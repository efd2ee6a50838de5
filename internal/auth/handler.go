package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// PublicPaths lists the routes reachable without a session.
func PublicPaths(prefix string) []string {
	return []string{prefix + "/auth/register", prefix + "/auth/login", prefix + "/auth/logout"}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
	rg.POST("/auth/logout", h.logout)
	rg.POST("/auth/reset-password", h.resetPassword)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resetRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, res)
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "username and password are required", nil)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) logout(c *gin.Context) {
	p, _ := middleware.PrincipalFromContext(c)
	if err := h.Svc.Logout(c.Request.Context(), p.SessionID); err != nil {
		h.fail(c, err)
		return
	}
	respond.Done(c)
}

func (h *Handler) resetPassword(c *gin.Context) {
	p, ok := middleware.PrincipalFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), p, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(c, err)
		return
	}
	respond.Done(c)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "), nil)
	case errors.Is(err, ErrUsernameTaken):
		respond.Error(c, http.StatusConflict, "duplicate", err.Error(), nil)
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized), errors.Is(err, ErrSessionExpired):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	default:
		respond.Internal(c, "authentication failed", err)
	}
}
