package app

import (
	"context"

	"github.com/talkincode/storefront/config"
	"github.com/talkincode/storefront/internal/repository"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// RepositoryProvider provides the repositories used by the HTTP layer
type RepositoryProvider interface {
	Repos() *repository.Repositories
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	DBProvider
	ConfigProvider
	RepositoryProvider

	MigrateDB(track bool) error
	InitDb()
	DropAll()
	Ping(ctx context.Context) error
}
