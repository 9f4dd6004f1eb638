// Package digest delivers the daily news summary notification. A
// polling loop compares wall-clock time against the configured
// delivery time and fires at most once per calendar day.
package digest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/majordomo-ai/majordomo/internal/capability"
)

// Runner owns the daily digest loop.
type Runner struct {
	news     capability.News
	notify   capability.Notifier
	log      zerolog.Logger
	hour     int
	minute   int
	interval time.Duration

	// clock is injectable for tests; defaults to time.Now.
	clock func() time.Time

	mu       sync.Mutex
	lastDate string // YYYY-MM-DD of the last delivery attempt

	stop chan struct{}
	done chan struct{}
}

// New builds a Runner delivering at the "HH:MM" wall-clock time,
// polling at the given interval.
func New(news capability.News, notify capability.Notifier, at string, interval time.Duration, log zerolog.Logger) (*Runner, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("invalid digest time %q: %w", at, err)
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Runner{
		news:     news,
		notify:   notify,
		log:      log,
		hour:     t.Hour(),
		minute:   t.Minute(),
		interval: interval,
		clock:    time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start launches the polling loop. Call Stop to terminate it.
func (r *Runner) Start() {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				r.tick()
			}
		}
	}()
}

// Stop terminates the loop and waits for it to exit.
func (r *Runner) Stop() {
	close(r.stop)
	<-r.done
}

// tick fires the digest when the delivery time for today has been
// reached and no attempt was made yet. The date is recorded before the
// fetch so a failing news backend is retried tomorrow, not every poll.
func (r *Runner) tick() {
	now := r.clock()
	if now.Hour() < r.hour || (now.Hour() == r.hour && now.Minute() < r.minute) {
		return
	}
	today := now.Format("2006-01-02")

	r.mu.Lock()
	if r.lastDate == today {
		r.mu.Unlock()
		return
	}
	r.lastDate = today
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	heads, err := r.news.TopHeadlines(ctx, 3)
	if err != nil {
		r.log.Warn().Err(err).Msg("daily digest fetch failed")
		return
	}
	r.notify.Notify("Daily news: " + strings.Join(heads, " | "))
	r.log.Info().Str("date", today).Msg("daily digest delivered")
}
