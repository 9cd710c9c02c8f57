package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coachpilot/coachpilot-golang/internal/apierr"
	"github.com/coachpilot/coachpilot-golang/internal/middleware"
	"github.com/coachpilot/coachpilot-golang/internal/models"
	"github.com/coachpilot/coachpilot-golang/internal/store"
)

// AddNotification is an internal helper called by other handlers (credit
// grants, session changes), not a route handler itself.
func (h *Handlers) AddNotification(ctx context.Context, coachID, message string) error {
	n := models.Notification{
		ID:        uuid.NewString(),
		CoachID:   coachID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	return h.Store.Set(ctx, store.Notifications, n.ID, n.ToFields())
}

// GetMyNotifications is the handler for GET /v1/notifications, newest
// first, unread before read.
func (h *Handlers) GetMyNotifications(c *gin.Context) {
	coachID := c.GetString(middleware.CtxCoachID)

	docs, err := h.Store.List(c.Request.Context(), store.Notifications, "coachId", coachID)
	if err != nil {
		h.fail(c, err)
		return
	}

	notifications := make([]models.Notification, 0, len(docs))
	for _, d := range docs {
		notifications = append(notifications, models.NotificationFromDoc(d.ID, d.Data))
	}
	sort.Slice(notifications, func(i, j int) bool {
		if notifications[i].IsRead != notifications[j].IsRead {
			return !notifications[i].IsRead
		}
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationAsRead is the handler for PATCH /v1/notifications/:id/read.
func (h *Handlers) MarkNotificationAsRead(c *gin.Context) {
	coachID := c.GetString(middleware.CtxCoachID)
	notificationID := c.Param("id")

	// Only the owner may mark a notification read.
	doc, err := h.Store.Get(c.Request.Context(), store.Notifications, notificationID)
	if err != nil || models.AsString(doc["coachId"]) != coachID {
		h.fail(c, apierr.NotFound("notification not found"))
		return
	}

	fields := map[string]interface{}{"isRead": true}
	if err := h.Store.Update(c.Request.Context(), store.Notifications, notificationID, fields); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
