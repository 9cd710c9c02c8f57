package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/coachpilot/coachpilot-golang/internal/models"
	"github.com/coachpilot/coachpilot-golang/internal/store"
)

// GetPlans is the handler for GET /v1/plans. Only public plans are listed;
// purchasing happens through the external payment processor, not here.
func (h *Handlers) GetPlans(c *gin.Context) {
	docs, err := h.Store.List(c.Request.Context(), store.Plans, "", "")
	if err != nil {
		h.fail(c, err)
		return
	}

	plans := make([]models.Plan, 0, len(docs))
	for _, d := range docs {
		plan := models.PlanFromDoc(d.ID, d.Data)
		if plan.IsPublic {
			plans = append(plans, plan)
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Price < plans[j].Price })

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}
