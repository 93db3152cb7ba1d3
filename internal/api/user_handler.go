package api

import (
	"github.com/gin-gonic/gin"

	"github.com/inkstream/inkstream/internal/social"
)

// UserHandler serves public user-facing profile reads
type UserHandler struct {
	svc *social.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(svc *social.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// Profile handles GET /api/users/:id/profile
func (h *UserHandler) Profile(c *gin.Context) {
	display := h.svc.ResolveDisplay(c.Request.Context(), c.Param("id"))
	respondOK(c, display)
}
