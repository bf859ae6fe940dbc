package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"focusflight/internal/cache"
	"focusflight/internal/config"
	"focusflight/internal/db"
	httpserver "focusflight/internal/http"
	"focusflight/internal/http/handlers"
	"focusflight/internal/repository"
	"focusflight/internal/service"
	"focusflight/internal/ws"
)

// App wires focusflight dependencies.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	var boarding service.BoardingCache
	if cfg.CacheEnabled() {
		redisClient, err = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		boarding = cache.NewBoardingStore(redisClient, cfg.BoardingPassTTL())
	} else {
		logger.Info("boarding pass cache disabled, no redis addr configured")
	}

	var events service.FlightEvents
	var feed *ws.FeedServer
	if cfg.WS.Enabled {
		hub := ws.NewHub(logger)
		feed = ws.NewFeedServer(hub, logger)
		events = hub
	}

	sessionRepo := repository.NewSessionRepository(sqlDB)
	referenceRepo := repository.NewReferenceRepository(sqlDB)
	achievementRepo := repository.NewAchievementRepository(sqlDB)
	statsRepo := repository.NewStatsRepository(sqlDB)

	sessionsService := service.NewSessionsService(sessionRepo, boarding, events, logger)
	referenceService := service.NewReferenceService(referenceRepo)
	statsService := service.NewStatsService(statsRepo)
	achievementsService := service.NewAchievementsService(sessionRepo, achievementRepo, statsRepo, events, logger)

	sessionsHandler := handlers.NewSessionsHandler(sessionsService, logger)
	achievementsHandler := handlers.NewAchievementsHandler(achievementsService, logger)

	routes := httpserver.Routes{
		Cities:            handlers.NewCitiesHandler(referenceService, logger),
		Categories:        handlers.NewCategoriesHandler(referenceService, logger),
		FlightRoutes:      handlers.NewRoutesHandler(referenceService, logger),
		SessionsList:      sessionsHandler.HandleList,
		SessionCreate:     sessionsHandler.HandleCreate,
		SessionGet:        sessionsHandler.HandleGet,
		SessionStart:      sessionsHandler.HandleStart,
		SessionSeat:       sessionsHandler.HandleSeat,
		SessionComplete:   sessionsHandler.HandleComplete,
		SessionCancel:     sessionsHandler.HandleCancel,
		Stats:             handlers.NewStatsHandler(statsService, logger),
		StatsCategories:   handlers.NewCategoryBreakdownHandler(statsService, logger),
		Achievements:      achievementsHandler.HandleList,
		AchievementsUser:  achievementsHandler.HandleEarned,
		AchievementsCheck: achievementsHandler.HandleCheck,
		Health:            handlers.NewHealthHandler(),
	}
	if feed != nil {
		routes.SessionEvents = feed.HandleFeed
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
