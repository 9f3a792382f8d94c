package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	authrest "codeberg.org/lumina/server/api/rest/auth"
	"codeberg.org/lumina/server/api/rest/health"
	projectsrest "codeberg.org/lumina/server/api/rest/projects"
	tasksrest "codeberg.org/lumina/server/api/rest/tasks"
	"codeberg.org/lumina/server/api/websocket"
	ws "codeberg.org/lumina/server/internal/websocket"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config.ClientURL))

	healthDeps := []health.Pinger{server.db}
	if server.redis != nil {
		healthDeps = append(healthDeps, redisPinger{server.redis})
	}

	router.GET("/health", health.Handler(healthDeps...))

	root := router.Group("")
	guard := server.guard.Require()

	{
		authrest.RegisterRoutes(root, authrest.Deps{
			Accounts:      server.services.Users,
			Sessions:      server.sessions,
			Guard:         guard,
			RateLimit:     server.authLimit,
			Providers:     server.providers,
			SecureCookies: server.config.SecureCookies(),
		})

		projectsrest.RegisterRoutes(root, server.services.Projects, guard)
		tasksrest.RegisterRoutes(root, server.services.Tasks, guard)
	}

	wsGroup := router.Group("/ws")
	wsGroup.Use(guard)

	websocket.RegisterRoutes(wsGroup, server.hub, ws.OriginChecker(
		[]string{server.config.ClientURL},
		server.config.IsProduction(),
	))
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
