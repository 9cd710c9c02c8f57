package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachpilot/coachpilot-golang/internal/auth"
	"github.com/coachpilot/coachpilot-golang/internal/handlers"
	"github.com/coachpilot/coachpilot-golang/internal/middleware"
)

// Options carries router-level configuration.
type Options struct {
	JWTSecret     []byte
	AllowedOrigin string
}

// SetupRouter wires all routes and middleware onto a gin engine.
func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.Default()

	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = "http://localhost:5173"
	}
	router.Use(middleware.CORS(opts.AllowedOrigin))

	v1 := router.Group("/v1")
	{
		// --- Public Routes ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})
		v1.GET("/plans", h.GetPlans)

		// --- Protected Routes (Session Required) ---
		protected := v1.Group("/")
		protected.Use(middleware.Auth(opts.JWTSecret))
		{
			// Coach data + AI insight refresh
			protected.GET("/coach-data", h.GetCoachData)
			protected.POST("/ai-insights/refresh", h.RefreshInsights)

			// Coach profile + dashboard
			protected.GET("/coach/me", h.GetMyCoachRecord)
			protected.PATCH("/coach/profile", h.UpdateCoachProfile)
			protected.GET("/coach/dashboard-stats", h.GetCoachStats)

			// Client roster
			protected.POST("/clients", h.CreateClient)
			protected.GET("/clients", h.GetMyClients)
			protected.GET("/clients/export", h.ExportClients)
			protected.GET("/clients/:id", h.GetClient)
			protected.PUT("/clients/:id", h.UpdateClient)

			// Sessions
			protected.POST("/sessions", h.CreateSession)
			protected.GET("/sessions", h.GetMySessions)
			protected.PATCH("/sessions/:id/status", h.UpdateSessionStatus)

			// Notifications
			protected.GET("/notifications", h.GetMyNotifications)
			protected.PATCH("/notifications/:id/read", h.MarkNotificationAsRead)
		}

		// --- Admin-Only Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.Auth(opts.JWTSecret))
		admin.Use(middleware.RequireRole(auth.RoleAdmin))
		{
			admin.GET("/coaches", h.ListCoaches)
			admin.POST("/coaches/:id/credits", h.GrantCredits)
		}
	}

	return router
}
