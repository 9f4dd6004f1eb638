package postgres

import (
	"os"
	"testing"

	"github.com/majordomo-ai/majordomo/internal/store"
	"github.com/majordomo-ai/majordomo/internal/store/storetest"
)

func makePGStore(t *testing.T) store.Store {
	t.Helper()
	dsn := os.Getenv("MAJORDOMO_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MAJORDOMO_POSTGRES_DSN not set; skipping postgres store integration test")
	}
	s, err := New(dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}
