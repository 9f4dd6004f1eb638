package store

import (
	"context"

	"github.com/majordomo-ai/majordomo/internal/model"
)

// Store exposes persistence operations required by the dispatcher and
// scheduler. Implementations live under internal/store/<driver>/
// (sqlite, postgres).
type Store interface {
	Sessions() Sessions
	Reminders() Reminders

	// HealthPing verifies connectivity for the health endpoint.
	HealthPing(ctx context.Context) error
	Close() error
}

// Sessions is the append-only per-user query/response log.
type Sessions interface {
	Append(ctx context.Context, e *model.SessionEntry) error

	// Last returns the most recently appended entry for the user, with
	// ties broken by insertion order. Returns model.ErrNotFound when
	// the user has no entries.
	Last(ctx context.Context, userID string) (*model.SessionEntry, error)
}

// Reminders is the durable reminder table. Task text is the de facto
// identity for deletion; the generated row ID exists so the scheduler
// can retain cancellable timer handles per row.
type Reminders interface {
	Create(ctx context.Context, r *model.Reminder) (*model.Reminder, error)

	// List returns the user's reminders ordered by creation time,
	// most recent first.
	List(ctx context.Context, userID string) ([]*model.Reminder, error)

	// All returns every persisted reminder; used by startup reload.
	All(ctx context.Context) ([]*model.Reminder, error)

	// DeleteByTask removes all rows matching (userID, task) exactly
	// (case-sensitive) and returns the IDs of the removed rows so
	// in-memory timers can be cancelled. No matches is not an error.
	DeleteByTask(ctx context.Context, userID, task string) ([]string, error)
}
