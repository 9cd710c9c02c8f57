package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachpilot/coachpilot-golang/internal/cache"
)

// RefreshInput defines the JSON request body for an insight refresh.
type RefreshInput struct {
	CoachID string `json:"coachId"`
	Prompt  string `json:"prompt"`
}

// RefreshInsights is the handler for POST /v1/ai-insights/refresh.
// It generates a new AI insight for the coach and charges one refresh
// credit. A request that fails at any point before the commit leaves the
// coach record untouched.
func (h *Handlers) RefreshInsights(c *gin.Context) {
	// 1. --- Parse Input ---
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	// 2. --- Run the Credit-Gated Refresh ---
	result, err := h.Insights.Refresh(c.Request.Context(), input.CoachID, input.Prompt)
	if err != nil {
		h.fail(c, err)
		return
	}

	// 3. --- Drop the Cached Coach Data ---
	// The stored insight and balance just changed; the next coach-data read
	// must come from the store.
	h.Cache.Invalidate(c.Request.Context(), cache.CoachDataKey(input.CoachID))

	// 4. --- Send Success Response ---
	c.JSON(http.StatusOK, result)
}
