package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/majordomo-ai/majordomo/internal/model"
	"github.com/majordomo-ai/majordomo/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()

	// Sessions: empty log
	if _, err := s.Sessions().Last(ctx, userID); err != model.ErrNotFound {
		t.Fatalf("Last on empty log: expected ErrNotFound, got %v", err)
	}

	// Sessions: append twice with identical timestamps; insertion order
	// must break the tie.
	ts := time.Now().UTC().Truncate(time.Second)
	for _, q := range []string{"first", "second"} {
		err := s.Sessions().Append(ctx, &model.SessionEntry{
			UserID: userID, Query: q, Response: "r-" + q, Timestamp: ts,
		})
		if err != nil {
			t.Fatalf("Append %q: %v", q, err)
		}
	}
	last, err := s.Sessions().Last(ctx, userID)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if last.Query != "second" {
		t.Fatalf("Last: got %q, want insertion-order winner %q", last.Query, "second")
	}

	// Reminders: create three, two sharing a task text.
	mk := func(task string, created time.Time) *model.Reminder {
		r, err := s.Reminders().Create(ctx, &model.Reminder{
			UserID:     userID,
			Task:       task,
			DueDisplay: "03:00 PM on June 01, 2025",
			CreatedAt:  created,
		})
		if err != nil {
			t.Fatalf("Create reminder %q: %v", task, err)
		}
		if r.ID == "" {
			t.Fatalf("Create reminder %q: empty id", task)
		}
		return r
	}
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	mk("standup", base)
	mk("lecture", base.Add(time.Minute))
	mk("standup", base.Add(2*time.Minute))

	lst, err := s.Reminders().List(ctx, userID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(lst) != 3 {
		t.Fatalf("List: got %d reminders, want 3", len(lst))
	}
	// Most recent first.
	if lst[0].Task != "standup" || lst[1].Task != "lecture" {
		t.Fatalf("List order wrong: %q, %q, %q", lst[0].Task, lst[1].Task, lst[2].Task)
	}

	all, err := s.Reminders().All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) < 3 {
		t.Fatalf("All: got %d reminders, want >= 3", len(all))
	}

	// DeleteByTask removes every exact match and reports the row IDs.
	ids, err := s.Reminders().DeleteByTask(ctx, userID, "standup")
	if err != nil {
		t.Fatalf("DeleteByTask: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("DeleteByTask: got %d ids, want 2", len(ids))
	}

	// Exact, case-sensitive match only.
	ids, err = s.Reminders().DeleteByTask(ctx, userID, "Lecture")
	if err != nil {
		t.Fatalf("DeleteByTask case-sensitive: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("DeleteByTask case-sensitive: got %d ids, want 0", len(ids))
	}

	// Deleting a non-existent task is not an error.
	ids, err = s.Reminders().DeleteByTask(ctx, userID, "nothing here")
	if err != nil || len(ids) != 0 {
		t.Fatalf("DeleteByTask missing: ids=%v err=%v", ids, err)
	}

	lst, err = s.Reminders().List(ctx, userID)
	if err != nil || len(lst) != 1 || lst[0].Task != "lecture" {
		t.Fatalf("List after delete: lst=%v err=%v", lst, err)
	}

	if err := s.HealthPing(ctx); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}
}
