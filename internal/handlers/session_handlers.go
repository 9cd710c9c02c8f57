package handlers

import (
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

// CreateSessionInput defines the JSON input for scheduling a session.
type CreateSessionInput struct {
	ClientID        string    `json:"clientId" binding:"required"`
	ScheduledAt     time.Time `json:"scheduledAt" binding:"required"`
	DurationMinutes int       `json:"durationMinutes"`
	Notes           string    `json:"notes"`
}

// CreateSession is the handler for POST /v1/sessions.
func (h *Handlers) CreateSession(c *gin.Context) {
	coachID := c.GetString(middleware.CtxCoachID)

	var input CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.DurationMinutes <= 0 {
		input.DurationMinutes = 60
	}

	// The client must exist and belong to this coach.
	doc, err := h.Store.Get(c.Request.Context(), store.Clients, input.ClientID)
	if err != nil || models.AsString(doc["coachId"]) != coachID {
		h.fail(c, apierr.NotFound("client not found"))
		return
	}

	now := time.Now().UTC()
	session := models.Session{
		ID:              uuid.NewString(),
		CoachID:         coachID,
		ClientID:        input.ClientID,
		ScheduledAt:     input.ScheduledAt,
		DurationMinutes: input.DurationMinutes,
		Status:          models.SessionStatusScheduled,
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := h.Store.Set(c.Request.Context(), store.Sessions, session.ID, session.ToFields()); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Session scheduled",
		"session": session,
	})
}

// GetMySessions is the handler for GET /v1/sessions, soonest first.
func (h *Handlers) GetMySessions(c *gin.Context) {
	coachID := c.GetString(middleware.CtxCoachID)

	docs, err := h.Store.List(c.Request.Context(), store.Sessions, "coachId", coachID)
	if err != nil {
		h.fail(c, err)
		return
	}

	sessions := make([]models.Session, 0, len(docs))
	for _, d := range docs {
		sessions = append(sessions, models.SessionFromDoc(d.ID, d.Data))
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ScheduledAt.Before(sessions[j].ScheduledAt)
	})

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// UpdateSessionStatusInput defines the JSON input for a status transition.
type UpdateSessionStatusInput struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateSessionStatus is the handler for PATCH /v1/sessions/:id/status.
// It moves a session to completed or cancelled (or back to scheduled).
func (h *Handlers) UpdateSessionStatus(c *gin.Context) {
	coachID := c.GetString(middleware.CtxCoachID)
	sessionID := c.Param("id")

	var input UpdateSessionStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidSessionStatus(input.Status) {
		h.fail(c, apierr.InvalidArgument("status must be one of: scheduled, completed, cancelled"))
		return
	}

	doc, err := h.Store.Get(c.Request.Context(), store.Sessions, sessionID)
	if err != nil || models.AsString(doc["coachId"]) != coachID {
		h.fail(c, apierr.NotFound("session not found"))
		return
	}

	fields := map[string]interface{}{
		"status":    input.Status,
		"updatedAt": time.Now().UTC(),
	}
	if input.Notes != "" {
		fields["notes"] = input.Notes
	}
	if err := h.Store.Update(c.Request.Context(), store.Sessions, sessionID, fields); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session updated"})
}
