package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	api "planora-backend/cmd/api"
	analyticsUsecase "planora-backend/internal/analytics/usecase"
	authdomain "planora-backend/internal/auth/domain"
	authRepo "planora-backend/internal/auth/repository"
	authUsecase "planora-backend/internal/auth/usecase"
	calendarUsecase "planora-backend/internal/calendar/usecase"
	goaldomain "planora-backend/internal/goal/domain"
	goalRepo "planora-backend/internal/goal/repository"
	goalUsecase "planora-backend/internal/goal/usecase"
	"planora-backend/internal/notification"
	notifdomain "planora-backend/internal/notification/domain"
	notifRepo "planora-backend/internal/notification/repository"
	notifUsecase "planora-backend/internal/notification/usecase"
	"planora-backend/internal/realtime"
	"planora-backend/internal/settings"
	taskdomain "planora-backend/internal/task/domain"
	taskRepo "planora-backend/internal/task/repository"
	"planora-backend/internal/task/scheduler"
	taskUsecase "planora-backend/internal/task/usecase"
	"planora-backend/pkg/config"
	"planora-backend/pkg/database"
	"planora-backend/pkg/fcm"
	"planora-backend/pkg/feed"
	"planora-backend/pkg/logger"
	"planora-backend/pkg/sse"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Storage: Postgres when configured, in-memory otherwise.
	var (
		userRepo        authRepo.UserRepository
		fcmTokenRepo    authRepo.FCMTokenRepository
		taskRepository  taskRepo.TaskRepository
		goalRepository  goalRepo.GoalRepository
		notifRepository notifRepo.NotificationRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		// Auto-migrate database schemas
		if err := db.AutoMigrate(
			&authdomain.User{},
			&authdomain.RefreshToken{},
			&authdomain.FCMToken{},
			&taskdomain.Task{},
			&goaldomain.Goal{},
			&notifdomain.Notification{},
		); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}

		userRepo = authRepo.NewUserRepository(db)
		fcmTokenRepo = authRepo.NewFCMTokenRepository(db)
		taskRepository = taskRepo.NewGormTaskRepository(db)
		goalRepository = goalRepo.NewGormGoalRepository(db)
		notifRepository = notifRepo.NewGormNotificationRepository(db)
	} else {
		logger.Warnf("[Main] DATABASE_URL not set, using in-memory storage")
		userRepo = authRepo.NewMemoryUserRepository()
		fcmTokenRepo = authRepo.NewMemoryFCMTokenRepository()
		taskRepository = taskRepo.NewMemoryTaskRepository()
		goalRepository = goalRepo.NewMemoryGoalRepository()
		notifRepository = notifRepo.NewMemoryNotificationRepository()
	}

	// Preferences: Redis when configured, in-memory otherwise.
	var prefsRepo settings.PreferenceRepository
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warnf("[Main] Invalid REDIS_URL, using in-memory preferences: %v", err)
			prefsRepo = settings.NewMemoryPreferenceRepository()
		} else {
			prefsRepo = settings.NewRedisPreferenceRepository(redis.NewClient(opts))
		}
	} else {
		prefsRepo = settings.NewMemoryPreferenceRepository()
	}

	// Change feeds and SSE fan-out
	taskFeed := feed.New[[]*taskdomain.Task]()
	goalFeed := feed.New[[]*goaldomain.Goal]()

	sseManager := sse.NewManager()
	go sseManager.Run()

	// FCM client (optional, push reminders disabled without it)
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		var err error
		fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			logger.Warnf("[Main] Failed to initialize FCM client (push reminders disabled): %v", err)
			fcmClient = nil
		}
	} else {
		logger.Infof("[Main] No Firebase credentials configured, FCM disabled")
	}

	// Cross-instance sync relay (optional)
	var relay *notification.Relay
	if cfg.GCPProjectID != "" {
		r, err := notification.NewRelay(cfg.GCPProjectID, cfg.SyncTopic, cfg.SyncSubscription, sseManager, cfg.GCPCredentials)
		if err != nil {
			logger.Errorf("[Main] Failed to initialize sync relay: %v", err)
		} else {
			relay = r
			go relay.Start(context.Background())
			defer relay.Close()
		}
	} else {
		logger.Infof("[Main] GCP_PROJECT_ID not set, cross-instance sync disabled")
	}

	// Use cases (dependency injection)
	notificationUc := notifUsecase.NewNotificationUsecase(notifRepository, sseManager)

	taskUc := taskUsecase.NewTaskUsecase(taskRepository, taskFeed)
	taskUc.SetNotifier(notificationUc)

	goalUc := goalUsecase.NewGoalUsecase(goalRepository, goalFeed)
	goalUc.SetNotifier(notificationUc)

	if relay != nil {
		taskUc.SetRelay(relay)
		goalUc.SetRelay(relay)
	}

	metricsUc := analyticsUsecase.NewMetricsUsecase(taskRepository, taskFeed)
	calendarUc := calendarUsecase.NewCalendarUsecase(taskRepository)

	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, fcmTokenRepo, cfg)

	// Reminder scheduler
	reminderScheduler := scheduler.NewTaskReminderScheduler(taskRepository, fcmTokenRepo, fcmClient)
	reminderScheduler.SetNotifier(notificationUc)
	reminderScheduler.Start()
	defer reminderScheduler.Stop()

	// SSE streamer
	streamer := realtime.NewStreamer(taskRepository, goalRepository, notifRepository, taskUc, metricsUc, taskFeed, goalFeed, sseManager)
	streamer.SetPreferences(prefsRepo)

	// HTTP surface
	handler := api.NewHandler(authUsecaseInstance, taskUc, goalUc, calendarUc, metricsUc, notificationUc, prefsRepo, streamer, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.Engine(),
	}

	go func() {
		logger.Infof("[Main] Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Infof("[Main] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("[Main] Server shutdown failed: %v", err)
	}
}
