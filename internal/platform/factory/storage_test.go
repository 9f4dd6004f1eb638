package factory

import (
	"context"
	"testing"

	"github.com/majordomo-ai/majordomo/internal/config"
)

func TestNewStoreSqlite(t *testing.T) {
	cfg := config.NewForTesting()

	st, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer func() { _ = st.Close() }()

	if err := st.HealthPing(context.Background()); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}
}

func TestNewStoreUnknownDriver(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.DBDriver = "mongodb"

	if _, err := NewStore(cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
