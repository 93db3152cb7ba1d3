package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkstream/inkstream/internal/db"
	"github.com/inkstream/inkstream/internal/summary"
)

// SummaryHandler proxies post summarization to the workflow backend
type SummaryHandler struct {
	posts  *db.PostRepository
	client *summary.Client
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(posts *db.PostRepository, client *summary.Client) *SummaryHandler {
	return &SummaryHandler{posts: posts, client: client}
}

// Summarize handles POST /api/posts/:id/summary
func (h *SummaryHandler) Summarize(c *gin.Context) {
	post, err := h.posts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if post == nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	text, err := h.client.Summarize(c.Request.Context(), post.Title, post.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"summary": text})
}
