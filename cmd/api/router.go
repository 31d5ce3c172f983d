package api

import (
	"net/http"

	"planora-backend/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// SSE endpoint: snapshots are primed on connect, changes follow.
		api.GET("/events", delivery.AuthMiddleware(h.authUsecase), h.streamer.Serve)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.authHandler.Register)
			auth.POST("/login", h.authHandler.Login)
			auth.POST("/google", h.authHandler.GoogleSignIn)
			auth.POST("/refresh", h.authHandler.RefreshToken)
			auth.POST("/logout", h.authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(h.authUsecase), h.authHandler.Me)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			fcm.POST("/register", h.authHandler.RegisterFCMToken)
			fcm.DELETE("/:token", h.authHandler.UnregisterFCMToken)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			tasks.GET("", h.taskHandler.GetTasks)
			tasks.POST("", h.taskHandler.CreateTask)
			tasks.GET("/:id", h.taskHandler.GetTaskByID)
			tasks.PUT("/:id", h.taskHandler.UpdateTask)
			tasks.DELETE("/:id", h.taskHandler.DeleteTask)
			tasks.PATCH("/:id/status", h.taskHandler.UpdateTaskStatus)
			tasks.PATCH("/:id/reschedule", h.taskHandler.RescheduleTask)
		}

		// Goal routes (protected)
		goals := api.Group("/goals")
		goals.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			goals.GET("", h.goalHandler.GetGoals)
			goals.POST("", h.goalHandler.CreateGoal)
			goals.GET("/:id", h.goalHandler.GetGoalByID)
			goals.PUT("/:id", h.goalHandler.UpdateGoal)
			goals.DELETE("/:id", h.goalHandler.DeleteGoal)
			goals.PATCH("/:id/milestones/:milestoneId/toggle", h.goalHandler.ToggleMilestone)
		}

		// Calendar routes (protected) - projected from tasks, nothing stored
		calendar := api.Group("/calendar")
		calendar.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			calendar.GET("/events", h.calendarHandler.GetEvents)
		}

		// Analytics routes (protected)
		analytics := api.Group("/analytics")
		analytics.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			analytics.GET("/metrics", h.metricsHandler.GetMetrics)
		}

		// Search routes (protected)
		search := api.Group("/search")
		search.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			search.GET("/tasks", h.taskHandler.SearchTasks)
			search.PUT("/live", h.streamer.UpdateSearch)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			notifications.GET("", h.notificationHandler.GetNotifications)
			notifications.PATCH("/:id/read", h.notificationHandler.MarkRead)
			notifications.POST("/read-all", h.notificationHandler.MarkAllRead)
			notifications.DELETE("/:id", h.notificationHandler.DeleteNotification)
		}

		// Settings routes (protected)
		settings := api.Group("/settings")
		settings.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			settings.GET("/preferences", h.settingsHandler.GetPreferences)
			settings.PUT("/preferences", h.settingsHandler.UpdatePreferences)
		}
	}
}
