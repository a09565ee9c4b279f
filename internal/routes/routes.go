package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/openpress/openpress-backend/internal/handler"
	"github.com/openpress/openpress-backend/internal/middleware"
	"github.com/openpress/openpress-backend/pkg/jwt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	contentHandler *handler.ContentHandler,
	versionHandler *handler.VersionHandler,
	workflowHandler *handler.WorkflowHandler,
	rollbackHandler *handler.RollbackHandler,
	conflictHandler *handler.ConflictHandler,
	auditHandler *handler.AuditHandler,
	jwtManager *jwt.Manager,
) {
	// Health check and metrics (no auth)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	auth := middleware.JWTAuth(jwtManager)

	// Contents and their version history
	contents := api.Group("/contents")
	{
		contents.POST("", auth, contentHandler.RegisterContent)

		versions := contents.Group("/:id/versions")
		{
			versions.GET("", versionHandler.ListVersions)
			versions.POST("", auth, versionHandler.CreateVersion)
			versions.POST("/purge", auth, versionHandler.Purge)
		}

		contents.GET("/:id/conflict-check", versionHandler.CheckConflict)
		contents.GET("/:id/conflicts", conflictHandler.ListOpenConflicts)

		// Workflow lifecycle
		contents.GET("/:id/state", workflowHandler.GetState)
		contents.GET("/:id/transitions", workflowHandler.AvailableTransitions)
		contents.POST("/:id/transition", auth, workflowHandler.Transition)

		// Rollback
		contents.POST("/:id/rollback", auth, rollbackHandler.Rollback)
		contents.GET("/:id/rollback/preview", rollbackHandler.PreviewRollback)

		// Audit trail
		contents.GET("/:id/audit", auditHandler.ListAuditLog)
	}

	// Version-addressed endpoints
	versions := api.Group("/versions")
	{
		versions.GET("/:version_id", versionHandler.GetVersion)
		versions.GET("/:version_id/metadata", versionHandler.GetMetadata)
		versions.GET("/:version_id/diff", versionHandler.Diff)
		versions.POST("/batch-rollback", auth, rollbackHandler.BatchRollback)
	}

	// Conflict resolution
	conflicts := api.Group("/conflicts")
	{
		conflicts.GET("/:id", conflictHandler.GetConflict)
		conflicts.POST("/:id/resolve", auth, conflictHandler.Resolve)
	}
}
