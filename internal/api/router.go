package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cci-admin-dashboard/internal/config"
	"github.com/cci-admin-dashboard/internal/service"
	"github.com/cci-admin-dashboard/web"
)

// HealthChecker reports whether the session store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router. db may be nil when
// sessions are kept in memory.
func NewRouter(services *service.Services, db HealthChecker, cfg *config.Config, log zerolog.Logger) (*gin.Engine, error) {
	// Set Gin mode
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	static, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("failed to load static assets: %w", err)
	}
	router.StaticFS("/static", http.FS(static))

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(securityHeadersMiddleware())

	h := NewHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck(services, db))

	router.GET("/login", h.LoginPage)
	router.POST("/login", h.Login)

	router.NoRoute(h.NotFound)

	protected := router.Group("/")
	protected.Use(sessionMiddleware(h), csrfMiddleware(h))
	{
		protected.GET("/", h.UsersPage)
		protected.POST("/logout", h.Logout)

		users := protected.Group("/users")
		{
			users.GET("", h.UsersPage)
			users.GET("/:id", h.UserPage)
			users.POST("/:id/update", h.UpdateUser)
			users.POST("/:id/deactivate", h.DeactivateUser)
		}

		contracts := protected.Group("/contracts")
		{
			contracts.GET("", h.ContractsPage)
			contracts.GET("/:id", h.ContractPage)
			contracts.POST("/:id/status", h.ChangeContractStatus)
			contracts.POST("/:id/update", h.UpdateContract)
			contracts.POST("/:id/terminate", h.TerminateContract)
			contracts.POST("/bulk-review", h.BulkReviewContracts)
			contracts.POST("/renewals", h.ManageRenewals)
		}

		premiums := protected.Group("/premiums")
		{
			premiums.GET("", h.PremiumsPage)
			premiums.GET("/:id", h.PremiumPage)
			premiums.POST("/:id/adjust", h.AdjustPremium)
			premiums.POST("/:id/retry", h.RetryPayment)
			premiums.POST("/bulk-adjust", h.BulkAdjustPremiums)
			premiums.POST("/audit", h.AuditPremiums)
			premiums.POST("/reminders", h.SendReminders)
			premiums.GET("/audit-results", h.DownloadAuditResults)
		}

		claims := protected.Group("/claims")
		{
			claims.GET("", h.ClaimsPage)
			claims.GET("/:id", h.ClaimPage)
			claims.POST("/:id/review", h.ReviewClaim)
			claims.POST("/:id/evaluate", h.EvaluateClaim)
			claims.POST("/:id/mark-paid", h.MarkClaimPaid)
			claims.POST("/:id/audit", h.AuditClaim)
			claims.POST("/bulk-review", h.BulkReviewClaims)
			claims.POST("/audit", h.AuditClaims)
		}

		// Shared list routes
		for _, entity := range []string{service.EntityUsers, service.EntityContracts, service.EntityPremiums, service.EntityClaims} {
			list := protected.Group("/" + entity)
			lh := listHandler{Handler: h, entity: entity}
			list.POST("/filter", lh.Filter)
			list.POST("/page/:n", lh.Page)
			list.POST("/limit", lh.Limit)
			list.POST("/select/:id", lh.Select)
			list.POST("/select-all", lh.SelectAll)
			list.GET("/report", lh.Report)
		}
	}

	return router, nil
}

// healthCheck returns the health status
func healthCheck(services *service.Services, db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		store := "memory"
		if db != nil {
			store = "ok"
			if err := db.HealthCheck(c.Request.Context()); err != nil {
				status, code, store = "unhealthy", http.StatusServiceUnavailable, err.Error()
			}
		}
		c.JSON(code, gin.H{
			"status":     status,
			"timestamp":  time.Now().Format(time.RFC3339),
			"service":    "cci-admin-dashboard",
			"store":      store,
			"workspaces": services.Workspaces.Count(),
		})
	}
}
