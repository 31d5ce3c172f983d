package api

import (
	analyticsDelivery "planora-backend/internal/analytics/delivery"
	analyticsUsecasePkg "planora-backend/internal/analytics/usecase"
	authDelivery "planora-backend/internal/auth/delivery"
	authUsecasePkg "planora-backend/internal/auth/usecase"
	calendarDelivery "planora-backend/internal/calendar/delivery"
	calendarUsecasePkg "planora-backend/internal/calendar/usecase"
	goalDelivery "planora-backend/internal/goal/delivery"
	goalUsecasePkg "planora-backend/internal/goal/usecase"
	notificationDelivery "planora-backend/internal/notification/delivery"
	notificationUsecasePkg "planora-backend/internal/notification/usecase"
	"planora-backend/internal/realtime"
	"planora-backend/internal/settings"
	taskDelivery "planora-backend/internal/task/delivery"
	taskUsecasePkg "planora-backend/internal/task/usecase"
	"planora-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

// Handler owns the HTTP surface: the per-feature handlers, the middleware
// chain, and the route table.
type Handler struct {
	config      *config.Config
	authUsecase authUsecasePkg.AuthUsecase

	authHandler         *authDelivery.AuthHandler
	taskHandler         *taskDelivery.TaskHandler
	goalHandler         *goalDelivery.GoalHandler
	calendarHandler     *calendarDelivery.CalendarHandler
	metricsHandler      *analyticsDelivery.MetricsHandler
	notificationHandler *notificationDelivery.NotificationHandler
	settingsHandler     *SettingsHandler
	streamer            *realtime.Streamer
}

func NewHandler(
	authUc authUsecasePkg.AuthUsecase,
	taskUc taskUsecasePkg.TaskUsecase,
	goalUc goalUsecasePkg.GoalUsecase,
	calendarUc calendarUsecasePkg.CalendarUsecase,
	metricsUc analyticsUsecasePkg.MetricsUsecase,
	notificationUc notificationUsecasePkg.NotificationUsecase,
	prefs settings.PreferenceRepository,
	streamer *realtime.Streamer,
	cfg *config.Config,
) *Handler {
	return &Handler{
		config:              cfg,
		authUsecase:         authUc,
		authHandler:         authDelivery.NewAuthHandler(authUc),
		taskHandler:         taskDelivery.NewTaskHandler(taskUc),
		goalHandler:         goalDelivery.NewGoalHandler(goalUc),
		calendarHandler:     calendarDelivery.NewCalendarHandler(calendarUc),
		metricsHandler:      analyticsDelivery.NewMetricsHandler(metricsUc),
		notificationHandler: notificationDelivery.NewNotificationHandler(notificationUc),
		settingsHandler:     NewSettingsHandler(prefs),
		streamer:            streamer,
	}
}

// Engine builds the configured Gin engine. The caller owns serving it.
func (h *Handler) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(corsMiddleware())

	SetupRoutes(r, h)
	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
