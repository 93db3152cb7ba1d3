package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkstream/inkstream/internal/auth"
	"github.com/inkstream/inkstream/internal/social"
)

// Every endpoint answers with the same envelope: {"success":true,"data":...}
// or {"success":false,"error":"..."}. No handler lets a raw error escape.

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondServiceError maps known service errors to statuses; anything else is
// surfaced as a 500 with its message passed through.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, social.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, social.ErrSelfFollow):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, social.ErrAlreadyFollowing):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrBadCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}
