package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"career-coach/internal/shared/server/middleware"
	"career-coach/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.Resolve(c.Request.Context(), middleware.UserIDFromContext(c))
	switch {
	case err == nil:
	case errors.Is(err, ErrUnauthorized):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "user_not_found", "user not found", nil)
		return
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.OK(c, gin.H{
		"id":      user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"picture": user.Picture,
	})
}
