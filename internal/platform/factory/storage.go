// Package factory selects concrete platform adapters from
// configuration.
package factory

import (
	"fmt"

	"github.com/majordomo-ai/majordomo/internal/config"
	"github.com/majordomo-ai/majordomo/internal/store"
	"github.com/majordomo-ai/majordomo/internal/store/postgres"
	"github.com/majordomo-ai/majordomo/internal/store/sqlite"
)

// NewStore selects the storage driver based on cfg.DBDriver.
func NewStore(cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		return postgres.New(cfg.PostgresDSN)
	case "sqlite":
		return sqlite.New(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
