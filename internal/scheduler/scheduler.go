// Package scheduler owns durable one-shot reminders: it creates,
// persists, fires, cancels and reloads them. Every armed reminder has
// a retained timer handle keyed by its row ID, so delete can cancel
// in-memory timers instead of only preventing rearmament on the next
// reload.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/majordomo-ai/majordomo/internal/capability"
	"github.com/majordomo-ai/majordomo/internal/model"
	"github.com/majordomo-ai/majordomo/internal/nlp"
	"github.com/majordomo-ai/majordomo/internal/store"
)

// Scheduler manages reminder persistence and timers. All store access
// runs under the scheduler mutex; reminder volume is low enough that a
// single mutual-exclusion boundary is sufficient.
type Scheduler struct {
	store  store.Store
	notify capability.Notifier
	log    zerolog.Logger

	// clock is injectable for tests; defaults to time.Now.
	clock func() time.Time

	mu     sync.Mutex
	timers map[string]*time.Timer // reminder ID -> armed handle
}

// New creates a Scheduler. Call Reload once at process start to re-arm
// persisted reminders.
func New(st store.Store, notify capability.Notifier, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		store:  st,
		notify: notify,
		log:    log,
		clock:  time.Now,
		timers: make(map[string]*time.Timer),
	}
}

// Create persists a reminder due at the given absolute time and arms
// its timer. Strictly-past due times are rejected with a validation
// error; callers are responsible for rollover before calling. A failed
// persist arms nothing: a reminder that exists only in memory would
// silently vanish on restart.
func (s *Scheduler) Create(ctx context.Context, userID, task string, due time.Time) (*model.Reminder, error) {
	now := s.clock()
	if !due.After(now) {
		return nil, NewValidationError("due", "due is in the past")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.store.Reminders().Create(ctx, &model.Reminder{
		UserID:     userID,
		Task:       task,
		DueDisplay: nlp.FormatDisplay(due),
		CreatedAt:  now,
	})
	if err != nil {
		s.log.Error().Err(err).Str("user", userID).Msg("reminder persist failed")
		return nil, err
	}

	s.armLocked(r, due.Sub(now))
	s.log.Debug().Str("user", userID).Str("task", task).Str("due", r.DueDisplay).Msg("reminder scheduled")
	return r, nil
}

// Delete removes all persisted rows matching (userID, task) exactly
// and cancels their pending timers. It returns the number of rows
// removed; zero matches is not an error.
func (s *Scheduler) Delete(ctx context.Context, userID, task string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.store.Reminders().DeleteByTask(ctx, userID, task)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if t, ok := s.timers[id]; ok {
			t.Stop()
			delete(s.timers, id)
		}
	}
	return len(ids), nil
}

// List returns the user's reminders, most recent first.
func (s *Scheduler) List(ctx context.Context, userID string) ([]*model.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Reminders().List(ctx, userID)
}

// Reload re-arms timers for every persisted reminder whose due time is
// still strictly in the future. Rows already past stay as historical
// records with no timer; there is no catch-up firing. Invoked once at
// process start.
func (s *Scheduler) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Reminders().All(ctx)
	if err != nil {
		return err
	}

	now := s.clock()
	armed := 0
	for _, r := range all {
		due, err := nlp.ParseTime(r.DueDisplay, now, false)
		if err != nil {
			s.log.Warn().Str("id", r.ID).Str("time", r.DueDisplay).Msg("unparseable reminder time; skipping")
			continue
		}
		if !due.After(now) {
			continue
		}
		s.armLocked(r, due.Sub(now))
		armed++
	}
	s.log.Info().Int("persisted", len(all)).Int("armed", armed).Msg("reminders reloaded")
	return nil
}

// Stop cancels every pending timer. Pending reminders are not fired;
// the next process picks them up via Reload.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// armLocked arms a timer for the reminder. Caller holds s.mu.
func (s *Scheduler) armLocked(r *model.Reminder, d time.Duration) {
	rem := *r
	s.timers[rem.ID] = time.AfterFunc(d, func() { s.fire(&rem) })
}

// fire runs on the timer goroutine: it notifies exactly once and
// consumes the handle. The persisted row is not re-read, so a row
// deleted after its timer already fired still notified once; that race
// is accepted.
func (s *Scheduler) fire(r *model.Reminder) {
	s.mu.Lock()
	delete(s.timers, r.ID)
	s.mu.Unlock()

	s.log.Debug().Str("user", r.UserID).Str("task", r.Task).Msg("reminder fired")
	s.notify.Notify("Reminder: " + r.Task)
}

// Pending reports how many timers are currently armed.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
