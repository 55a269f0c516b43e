package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"playlist-backend/internal/shared/middleware"
	"playlist-backend/internal/shared/response"
	"playlist-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.SlowResponse(c.AlertDispatcher, c.Config.Alert.SlowResponseThreshold),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		authed := v1.Group("", middleware.AuthMiddleware(c.JWTManager))
		setupCustomPlaylistRoutes(authed, c)
		setupPlaylistRoutes(authed, c)
	}

	admin := router.Group("/admin/v1", middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	setupAdminRoutes(admin, c)

	return router
}

// ========================================
// CUSTOM PLAYLIST ROUTES
// ========================================
func setupCustomPlaylistRoutes(rg *gin.RouterGroup, c *container.Container) {
	cp := rg.Group("/custom-playlists")
	{
		cp.POST("", c.CustomPlaylistHandler.Create)
		cp.GET("", c.CustomPlaylistHandler.Gets)
		cp.GET("/:id", c.CustomPlaylistHandler.Get)
		cp.PATCH("/:id", c.CustomPlaylistHandler.Patch)
		cp.POST("/:id/songs/:songId", c.CustomPlaylistHandler.AddSong)
	}
}

// ========================================
// PLAYLIST ROUTES
// ========================================
func setupPlaylistRoutes(rg *gin.RouterGroup, c *container.Container) {
	p := rg.Group("/playlists")
	{
		p.GET("/:id", c.PlaylistHandler.Get)
		p.POST("/:id/views", c.PlaylistHandler.RecordView)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(rg *gin.RouterGroup, c *container.Container) {
	batch := rg.Group("/batch")
	{
		batch.POST("/albums", c.AdminHandler.InsertAlbums)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			response.ErrorResponse(ctx, http.StatusServiceUnavailable, "DB_UNAVAILABLE", err.Error())
			return
		}

		stats, _ := c.DB.Stats()
		response.Success(ctx, http.StatusOK, gin.H{
			"status":     "healthy",
			"version":    c.Config.App.Version,
			"db_pool":    stats,
			"batch_pool": c.BatchPool.Size(),
		})
	}
}
