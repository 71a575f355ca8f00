package container

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/milanapp/milan-backend/internal/config"
	"github.com/milanapp/milan-backend/internal/delivery/http"
	"github.com/milanapp/milan-backend/internal/delivery/http/handler"
	"github.com/milanapp/milan-backend/internal/delivery/http/middleware"
	"github.com/milanapp/milan-backend/internal/infrastructure/database"
	"github.com/milanapp/milan-backend/internal/infrastructure/notification"
	"github.com/milanapp/milan-backend/internal/infrastructure/realtime"
	"github.com/milanapp/milan-backend/internal/infrastructure/server"
	"github.com/milanapp/milan-backend/internal/repository/postgres"
	"github.com/milanapp/milan-backend/internal/usecase/auth"
	"github.com/milanapp/milan-backend/internal/usecase/chat"
	"github.com/milanapp/milan-backend/internal/usecase/demoactivity"
	"github.com/milanapp/milan-backend/internal/usecase/discovery"
	"github.com/milanapp/milan-backend/internal/usecase/match"
	"github.com/milanapp/milan-backend/internal/usecase/profile"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *sqlx.DB
	Redis     *redis.Client
	Server    *server.Server
	Socket    *realtime.Server
	Scheduler *demoactivity.Scheduler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize socket.io server
	socketServer := realtime.NewServer(logger)

	// Initialize push notifications
	var notifier notification.Notifier
	if cfg.Notification.FCMServerKey != "" {
		notifier = notification.NewFCMClient(cfg.Notification.FCMServerKey, logger)
	} else {
		logger.Warn("FCM server key not configured, push notifications disabled")
		notifier = notification.Noop{}
	}

	// Initialize repositories
	profileRepo := postgres.NewProfileRepository(db)
	interactionRepo := postgres.NewInteractionRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	// Initialize use cases
	matchUseCase := match.NewMatchUseCase(
		interactionRepo,
		profileRepo,
		socketServer,
		notifier,
		logger,
	)

	chatUseCase := chat.NewChatUseCase(
		interactionRepo,
		messageRepo,
		profileRepo,
		socketServer,
		notifier,
		logger,
	)

	scheduler := demoactivity.NewScheduler(
		demoactivity.NewRedisQueue(redisClient),
		profileRepo,
		matchUseCase,
		chatUseCase,
		cfg.DemoActivity,
		logger,
	)

	authUseCase := auth.NewAuthUseCase(
		profileRepo,
		redisClient,
		scheduler,
		cfg,
		logger,
	)

	profileUseCase := profile.NewProfileUseCase(
		profileRepo,
		logger,
	)

	discoveryUseCase := discovery.NewDiscoveryUseCase(
		profileRepo,
		interactionRepo,
		logger,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUseCase)
	profileHandler := handler.NewProfileHandler(profileUseCase)
	discoveryHandler := handler.NewDiscoveryHandler(discoveryUseCase)
	matchHandler := handler.NewMatchHandler(matchUseCase)
	chatHandler := handler.NewChatHandler(chatUseCase)
	configHandler := handler.NewConfigHandler()

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	// Initialize router
	router := http.NewRouter(
		authHandler,
		profileHandler,
		discoveryHandler,
		matchHandler,
		chatHandler,
		configHandler,
		authMiddleware,
		socketServer,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter, logger)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Redis:     redisClient,
		Server:    srv,
		Socket:    socketServer,
		Scheduler: scheduler,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Socket != nil {
		if err := c.Socket.Close(); err != nil {
			c.Logger.Error("failed to close socket server", zap.Error(err))
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Error("failed to close redis", zap.Error(err))
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
