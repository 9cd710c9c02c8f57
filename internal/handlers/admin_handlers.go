package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachpilot/coachpilot-golang/internal/cache"
	"github.com/coachpilot/coachpilot-golang/internal/models"
	"github.com/coachpilot/coachpilot-golang/internal/store"
)

//
// --- Admin: Coach Management Handlers ---
//

// GrantCreditsInput defines the JSON input for an admin credit grant.
type GrantCreditsInput struct {
	Credits int `json:"credits" binding:"required"`
}

// GrantCredits is the handler for POST /v1/admin/coaches/:id/credits.
// It tops up a coach's AI-refresh balance through the same ledger write
// path the refresh flow uses.
func (h *Handlers) GrantCredits(c *gin.Context) {
	coachID := c.Param("id")

	// 1. --- Bind & Validate JSON ---
	var input GrantCreditsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Apply via the Ledger ---
	balance, err := h.Ledger.GrantCredits(c.Request.Context(), coachID, input.Credits)
	if err != nil {
		h.fail(c, err)
		return
	}

	// 3. --- Invalidate Cache & Notify ---
	h.Cache.Invalidate(c.Request.Context(), cache.CoachDataKey(coachID))
	msg := fmt.Sprintf("You received %d AI refresh credits. New balance: %d.", input.Credits, balance)
	if err := h.AddNotification(c.Request.Context(), coachID, msg); err != nil {
		// The grant already landed; the missing notification is only logged.
		h.Log.Warn("failed to add credit-grant notification", "coachId", coachID, "err", err)
	}

	// 4. --- Send Success Response ---
	c.JSON(http.StatusOK, gin.H{
		"message":          "Credits granted",
		"aiRefreshCredits": balance,
	})
}

// ListCoaches is the handler for GET /v1/admin/coaches. It lists every
// coach record for the admin portal.
func (h *Handlers) ListCoaches(c *gin.Context) {
	docs, err := h.Store.List(c.Request.Context(), store.Coaches, "", "")
	if err != nil {
		h.fail(c, err)
		return
	}

	coaches := make([]models.Coach, 0, len(docs))
	for _, d := range docs {
		coaches = append(coaches, models.CoachFromDoc(d.ID, d.Data))
	}

	c.JSON(http.StatusOK, gin.H{"coaches": coaches})
}
