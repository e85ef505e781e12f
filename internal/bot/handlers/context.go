package handlers

import (
	"editor-board/internal/api/backend"
	"editor-board/internal/catalog"
	"editor-board/internal/config"
	"editor-board/internal/session"
	"editor-board/internal/storage/postgres"
	"editor-board/internal/storage/redis"

	"go.uber.org/zap"
)

// Context contains deps for all handlers
type Context struct {
	Store    *postgres.Store
	Cache    *redis.Cache
	Backend  *backend.Client
	Catalog  *catalog.Catalog
	Sessions *session.Registry
	Config   *config.Config
	Logger   *zap.Logger
}
