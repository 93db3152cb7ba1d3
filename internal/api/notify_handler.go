package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkstream/inkstream/internal/auth"
	"github.com/inkstream/inkstream/internal/db"
	"github.com/inkstream/inkstream/internal/events"
)

// NotifyHandler exposes the notification-reading flow
type NotifyHandler struct {
	notifs *db.NotificationRepository
	bus    *events.Bus
}

// NewNotifyHandler creates a new notification handler
func NewNotifyHandler(notifs *db.NotificationRepository, bus *events.Bus) *NotifyHandler {
	return &NotifyHandler{notifs: notifs, bus: bus}
}

// List handles GET /api/notifications
func (h *NotifyHandler) List(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	notifs, err := h.notifs.ListByRecipient(c.Request.Context(), userID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, notifs)
}

// UnreadCount handles GET /api/notifications/unread_count
func (h *NotifyHandler) UnreadCount(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	count, err := h.notifs.CountUnread(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"unread": count})
}

// MarkRead handles POST /api/notifications/read
func (h *NotifyHandler) MarkRead(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.notifs.MarkAllRead(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err)
		return
	}
	h.bus.Publish()
	respondOK(c, nil)
}

// Stream handles GET /api/notifications/stream. It pushes a payload-less
// "changed" event whenever unread state may have moved; clients refetch the
// count. Best-effort, no replay.
func (h *NotifyHandler) Stream(c *gin.Context) {
	if _, ok := auth.UserIDFromContext(c.Request.Context()); !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	signals, cancel := h.bus.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case _, open := <-signals:
			if !open {
				return false
			}
			c.SSEvent("changed", "")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
