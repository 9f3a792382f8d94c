package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"codeberg.org/lumina/server/internal/auth"
	"codeberg.org/lumina/server/internal/config"
	"codeberg.org/lumina/server/internal/events"
	"codeberg.org/lumina/server/internal/logger"
	"codeberg.org/lumina/server/internal/ratelimit"
	"codeberg.org/lumina/server/internal/sessions"
	"codeberg.org/lumina/server/internal/storage"
	ws "codeberg.org/lumina/server/internal/websocket"
	"codeberg.org/lumina/server/lumina/projects"
	"codeberg.org/lumina/server/lumina/tasks"
	"codeberg.org/lumina/server/lumina/users"
)

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config, db *pgxpool.Pool) (*Server, error) {
	var redisClient *redis.Client
	var sessionStore sessions.Store

	if cfg.RedisURL != "" {
		client, err := storage.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}

		redisClient = client
		sessionStore = sessions.NewRedisStore(client)
	} else {
		if cfg.IsProduction() {
			logger.Warn("REDIS_URL not set, sessions and rate limits are kept in memory")
		}

		sessionStore = sessions.NewMemoryStore()
	}

	closeAll := func() {
		closeSessionStore(sessionStore)

		if redisClient != nil {
			redisClient.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		}
	}

	sessionManager, err := sessions.NewManager(sessionStore, sessions.Options{
		Secret: []byte(cfg.SessionSecret),
		TTL:    cfg.SessionTTL,
		Secure: cfg.SecureCookies(),
	})
	if err != nil {
		closeAll()
		return nil, err
	}

	codec, err := auth.NewCodec([]byte(cfg.JWTSecret), cfg.JWTExpiresIn)
	if err != nil {
		closeAll()
		return nil, err
	}

	providers, err := auth.InitializeProviders(cfg)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to initialize OAuth providers: %w", err)
	}

	authLimit, err := ratelimit.Middleware(cfg.AuthRateLimit, redisClient)
	if err != nil {
		closeAll()
		return nil, err
	}

	hub := ws.NewHub()

	// every lifecycle event is logged and pushed to the owner's open sockets
	sink := events.NewMulti(events.NewLogSink(logger.Default()), hub)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger())

	server := &Server{
		db:           db,
		redis:        redisClient,
		config:       cfg,
		sessionStore: sessionStore,
		sessions:     sessionManager,
		guard:        auth.NewGuard(sessionManager, auth.NewResolver(codec)),
		providers:    providers,
		authLimit:    authLimit,
		services:     InitializeServices(db, codec, sink),
		hub:          hub,
		router:       router,
	}

	RegisterRoutes(router, server)

	logger.Info("server configured",
		"environment", cfg.Environment,
		"redis", redisClient != nil,
		"oauth_providers", providers,
	)

	return server, nil
}

// creates the domain services over Postgres
func InitializeServices(db *pgxpool.Pool, codec *auth.Codec, sink events.Sink) *Services {
	projectService := projects.NewService(projects.NewRepository(db), sink)

	return &Services{
		Users:    users.NewService(users.NewRepository(db), codec, sink),
		Projects: projectService,
		Tasks:    tasks.NewService(tasks.NewRepository(db), projectService, sink),
	}
}

// releases everything the server owns except the database pool
func (s *Server) Close() {
	closeSessionStore(s.sessionStore)

	if s.redis != nil {
		s.redis.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}
}

// stops the memory store's cleanup loop; the Redis store has nothing to stop
func closeSessionStore(store sessions.Store) {
	if closer, ok := store.(interface{ Close() error }); ok {
		closer.Close() //nolint:errcheck,gosec // best-effort cleanup
	}
}
