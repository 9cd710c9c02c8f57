package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachpilot/coachpilot-golang/internal/apierr"
	"github.com/coachpilot/coachpilot-golang/internal/cache"
	"github.com/coachpilot/coachpilot-golang/internal/insights"
	"github.com/coachpilot/coachpilot-golang/internal/ledger"
	"github.com/coachpilot/coachpilot-golang/internal/logger"
	"github.com/coachpilot/coachpilot-golang/internal/store"
)

// Handlers holds all dependencies for the HTTP handlers. Everything is
// constructed in main and injected here; there are no package-level clients.
type Handlers struct {
	Store    store.Store
	Ledger   *ledger.Ledger
	Insights *insights.Service
	Cache    *cache.Cache
	Log      *logger.Logger
}

// fail writes err as a JSON error response. Known kinds map to their HTTP
// status; anything else is a 500 with the message passed through.
func (h *Handlers) fail(c *gin.Context, err error) {
	status := apierr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// isNotFound reports whether err is the store's missing-document error.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
