package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clientportal/internal/handler"
	"clientportal/internal/session"
	"clientportal/pkg/metrics"
	"clientportal/pkg/otel"
	"clientportal/pkg/rbac"
	"clientportal/pkg/trace"
)

// ReadinessCheck reports whether a backing service is reachable.
type ReadinessCheck func(ctx context.Context) error

type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Progress  *handler.ProgressHandler
	Proposal  *handler.ProposalHandler
	Request   *handler.RequestHandler
}

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	h Handlers,
	gate *session.Gate,
	slots session.SlotStore,
	jwtSecret string,
	checks map[string]ReadinessCheck,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery(), trace.Middleware(), otel.GinMiddleware(), metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/readyz", readyz(checks))
	r.GET("/metrics", metrics.Handler())

	// Public
	r.POST("/login", h.Auth.Login)
	r.POST("/logout", h.Auth.Logout)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(gate, slots, jwtSecret))
	{
		auth.GET("/me", h.Auth.Me)
		auth.GET("/dashboard", h.Dashboard.Dashboard)
		auth.POST("/requests", rbac.RequirePermission(rbac.PermissionSubmitRequest), h.Request.SubmitChangeRequest)

		read := rbac.RequirePermission(rbac.PermissionReadProgress)
		update := rbac.RequirePermission(rbac.PermissionUpdateProgress)
		auth.GET("/progress", read, h.Progress.GetProgress)
		auth.GET("/progress/assets/download-all", read, h.Progress.DownloadAll)
		auth.GET("/progress/assets/:id/download", read, h.Progress.DownloadAsset)
		auth.POST("/progress/deliverables", update, h.Progress.SetDeliverable)
		auth.POST("/progress/milestones/:id", update, h.Progress.SetMilestone)
		auth.POST("/progress/channels/:channel", update, h.Progress.SetChannel)
		auth.POST("/progress/updates", update, h.Progress.PostUpdate)
		auth.POST("/progress/special-requests", update, h.Progress.AddSpecialRequest)
		auth.POST("/progress/assets", update, h.Progress.AddAsset)

		auth.GET("/proposal", rbac.RequirePermission(rbac.PermissionReadProposal), h.Proposal.GetProposal)
		auth.GET("/proposal/invoice", rbac.RequirePermission(rbac.PermissionReadProposal), h.Proposal.Invoice)
		auth.POST("/proposal/confirm", rbac.RequirePermission(rbac.PermissionConfirmProposal), h.Proposal.Confirm)
		auth.POST("/proposal/designs/:id/toggle", rbac.RequirePermission(rbac.PermissionConfirmProposal), h.Proposal.ToggleDesign)
	}

	return &Router{Engine: r}
}

func readyz(checks map[string]ReadinessCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		for name, check := range checks {
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": name + "_not_ready",
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
