package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coachpilot/coachpilot-golang/internal/apierr"
	"github.com/coachpilot/coachpilot-golang/internal/cache"
	"github.com/coachpilot/coachpilot-golang/internal/middleware"
	"github.com/coachpilot/coachpilot-golang/internal/models"
	"github.com/coachpilot/coachpilot-golang/internal/store"
)

// GetCoachData is the handler for GET /v1/coach-data?coachId=<id>.
// It returns the coach's stored insight and remaining refresh credits.
func (h *Handlers) GetCoachData(c *gin.Context) {
	// 1. --- Validate Query ---
	coachID := c.Query("coachId")
	if coachID == "" {
		h.fail(c, apierr.InvalidArgument("coachId query parameter is required"))
		return
	}

	// 2. --- Try the Cache ---
	var data models.CoachData
	key := cache.CoachDataKey(coachID)
	if h.Cache.GetJSON(c.Request.Context(), key, &data) {
		c.JSON(http.StatusOK, data)
		return
	}

	// 3. --- Load via the Ledger ---
	// The ledger applies the uninitialized-credit default on read, so a
	// coach whose credit field was never set reads as having the default
	// balance without anything being written back.
	bal, err := h.Ledger.LoadBalance(c.Request.Context(), coachID)
	if err != nil {
		h.fail(c, err)
		return
	}

	// 4. --- Respond and Fill the Cache ---
	data = models.CoachData{AIInsights: bal.Insight, AIRefreshCredits: bal.Credits}
	h.Cache.SetJSON(c.Request.Context(), key, data)
	c.JSON(http.StatusOK, data)
}

// UpdateProfileInput defines the JSON input for a coach profile update.
// Ledger fields are deliberately absent: profile updates can never touch
// insights or credits.
type UpdateProfileInput struct {
	FullName       string `json:"fullName"`
	Bio            string `json:"bio"`
	Specialization string `json:"specialization"`
}

// UpdateCoachProfile is the handler for PATCH /v1/coach/profile.
func (h *Handlers) UpdateCoachProfile(c *gin.Context) {
	coachID := c.GetString(middleware.CtxCoachID)

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{"updatedAt": time.Now().UTC()}
	if input.FullName != "" {
		fields["fullName"] = input.FullName
	}
	if input.Bio != "" {
		fields["bio"] = input.Bio
	}
	if input.Specialization != "" {
		fields["specialization"] = input.Specialization
	}

	if err := h.Store.Update(c.Request.Context(), store.Coaches, coachID, fields); err != nil {
		if isNotFound(err) {
			h.fail(c, apierr.NotFound("coach not found"))
			return
		}
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// GetMyCoachRecord is the handler for GET /v1/coach/me: the full coach
// record for the logged-in coach.
func (h *Handlers) GetMyCoachRecord(c *gin.Context) {
	coachID := c.GetString(middleware.CtxCoachID)

	doc, err := h.Store.Get(c.Request.Context(), store.Coaches, coachID)
	if err != nil {
		if isNotFound(err) {
			h.fail(c, apierr.NotFound("coach not found"))
			return
		}
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"coach": models.CoachFromDoc(coachID, doc)})
}
