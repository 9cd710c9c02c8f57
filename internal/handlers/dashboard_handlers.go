package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coachpilot/coachpilot-golang/internal/middleware"
	"github.com/coachpilot/coachpilot-golang/internal/models"
	"github.com/coachpilot/coachpilot-golang/internal/store"
)

//
// --- Coach Dashboard Stats ---
//

type CoachStats struct {
	ActiveClients    int `json:"activeClients"`
	UpcomingSessions int `json:"upcomingSessions"`
	UnreadCount      int `json:"unreadCount"`
}

// GetCoachStats returns KPI data for the coach dashboard.
// GET /v1/coach/dashboard-stats
func (h *Handlers) GetCoachStats(c *gin.Context) {
	coachID := c.GetString(middleware.CtxCoachID)
	ctx := c.Request.Context()
	stats := CoachStats{}

	// 1. Active Clients Count
	clients, err := h.Store.List(ctx, store.Clients, "coachId", coachID)
	if err != nil {
		h.fail(c, err)
		return
	}
	for _, d := range clients {
		if models.AsString(d.Data["status"]) == models.ClientStatusActive {
			stats.ActiveClients++
		}
	}

	// 2. Upcoming Sessions Count
	sessions, err := h.Store.List(ctx, store.Sessions, "coachId", coachID)
	if err != nil {
		h.fail(c, err)
		return
	}
	now := time.Now().UTC()
	for _, d := range sessions {
		s := models.SessionFromDoc(d.ID, d.Data)
		if s.Status == models.SessionStatusScheduled && s.ScheduledAt.After(now) {
			stats.UpcomingSessions++
		}
	}

	// 3. Unread Notifications Count
	notifications, err := h.Store.List(ctx, store.Notifications, "coachId", coachID)
	if err != nil {
		h.fail(c, err)
		return
	}
	for _, d := range notifications {
		if !models.AsBool(d.Data["isRead"]) {
			stats.UnreadCount++
		}
	}

	c.JSON(http.StatusOK, stats)
}
