package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkstream/inkstream/internal/auth"
	"github.com/inkstream/inkstream/internal/db"
	"github.com/inkstream/inkstream/internal/models"
	"github.com/inkstream/inkstream/internal/social"
)

// PostHandler exposes article browsing and creation
type PostHandler struct {
	posts  *db.PostRepository
	social *social.Service
}

// NewPostHandler creates a new post handler
func NewPostHandler(posts *db.PostRepository, socialSvc *social.Service) *PostHandler {
	return &PostHandler{posts: posts, social: socialSvc}
}

type createPostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Create handles POST /api/posts. The author's display identity is resolved
// once and denormalized into the row.
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	display := h.social.ResolveDisplay(c.Request.Context(), userID)
	now := time.Now().UTC()
	post := &models.Post{
		ID:           uuid.New().String(),
		Author:       userID,
		AuthorName:   display.Nickname,
		AuthorAvatar: display.AvatarURL,
		Title:        req.Title,
		Content:      req.Content,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.posts.Create(c.Request.Context(), post); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, post)
}

// Get handles GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.posts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if post == nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}
	respondOK(c, post)
}

// List handles GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	posts, err := h.posts.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, posts)
}
