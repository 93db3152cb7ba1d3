package api

import (
	"github.com/gin-gonic/gin"

	"github.com/inkstream/inkstream/internal/social"
)

// FollowHandler exposes the follow graph over HTTP
type FollowHandler struct {
	svc *social.Service
}

// NewFollowHandler creates a new follow handler
func NewFollowHandler(svc *social.Service) *FollowHandler {
	return &FollowHandler{svc: svc}
}

// Follow handles POST /api/follows/:id
func (h *FollowHandler) Follow(c *gin.Context) {
	edge, err := h.svc.Follow(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, edge)
}

// Unfollow handles DELETE /api/follows/:id
func (h *FollowHandler) Unfollow(c *gin.Context) {
	if err := h.svc.Unfollow(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, nil)
}

// IsFollowing handles GET /api/follows/:id. It never reports an error; an
// unresolvable answer is simply false.
func (h *FollowHandler) IsFollowing(c *gin.Context) {
	respondOK(c, gin.H{
		"following": h.svc.IsFollowing(c.Request.Context(), c.Param("id")),
	})
}

// FollowCount handles GET /api/users/:id/follow_count
func (h *FollowHandler) FollowCount(c *gin.Context) {
	userID := c.Param("id")
	ctx := c.Request.Context()
	respondOK(c, gin.H{
		"following": h.svc.FollowingCount(ctx, userID),
		"followers": h.svc.FollowersCount(ctx, userID),
	})
}

// FollowingList handles GET /api/users/:id/following
func (h *FollowHandler) FollowingList(c *gin.Context) {
	respondOK(c, h.svc.FollowingList(c.Request.Context(), c.Param("id")))
}

// FollowersList handles GET /api/users/:id/followers
func (h *FollowHandler) FollowersList(c *gin.Context) {
	respondOK(c, h.svc.FollowersList(c.Request.Context(), c.Param("id")))
}
