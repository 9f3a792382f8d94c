package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"codeberg.org/lumina/server/internal/auth"
	"codeberg.org/lumina/server/internal/config"
	"codeberg.org/lumina/server/internal/sessions"
	ws "codeberg.org/lumina/server/internal/websocket"
	"codeberg.org/lumina/server/lumina/projects"
	"codeberg.org/lumina/server/lumina/tasks"
	"codeberg.org/lumina/server/lumina/users"
)

// holds all dependencies and state for the API server
type Server struct {
	db     *pgxpool.Pool
	redis  *redis.Client // nil when REDIS_URL is unset
	config *config.Config

	sessionStore sessions.Store
	sessions     *sessions.Manager
	guard        *auth.Guard
	providers    []string
	authLimit    gin.HandlerFunc

	services *Services
	hub      *ws.Hub
	router   *gin.Engine
}

// holds the domain services
type Services struct {
	Users    *users.Service
	Projects *projects.Service
	Tasks    *tasks.Service
}
