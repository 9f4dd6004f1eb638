package dispatcher

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majordomo-ai/majordomo/internal/scheduler"
	"github.com/majordomo-ai/majordomo/internal/state"
	"github.com/majordomo-ai/majordomo/internal/store"
	"github.com/majordomo-ai/majordomo/internal/store/sqlite"
)

type fakeBrowser struct {
	mu   sync.Mutex
	urls []string
}

func (f *fakeBrowser) OpenURL(u string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, u)
	return nil
}

type fakeCompletion struct {
	prompts []string
	answer  string
}

func (f *fakeCompletion) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(string) {}

func newTestDispatcher(t *testing.T, caps Capabilities) (*Dispatcher, store.Store) {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sched := scheduler.New(st, noopNotifier{}, zerolog.Nop())
	t.Cleanup(sched.Stop)

	d := New(st, sched, state.New(), caps, "majordomo", "Delhi", zerolog.Nop())
	return d, st
}

func TestHandleOpenAppWithSearch(t *testing.T) {
	br := &fakeBrowser{}
	d, _ := newTestDispatcher(t, Capabilities{Browser: br})

	resp, err := d.Handle(context.Background(), "user1", "Hey Majordomo, open google and search cats")
	require.NoError(t, err)
	assert.Equal(t, "Opening google and searching for 'cats'.", resp)
	require.Len(t, br.urls, 1)
	assert.Equal(t, "https://www.google.com/search?q=cats", br.urls[0])
}

func TestHandleTimeAndDate(t *testing.T) {
	d, _ := newTestDispatcher(t, Capabilities{})
	d.clock = func() time.Time {
		return time.Date(2025, time.June, 1, 15, 4, 0, 0, time.UTC)
	}

	resp, err := d.Handle(context.Background(), "user1", "what's the time?")
	require.NoError(t, err)
	assert.Equal(t, "The current time is 03:04 PM on June 01, 2025.", resp)

	resp, err = d.Handle(context.Background(), "user1", "what is today's date")
	require.NoError(t, err)
	assert.Equal(t, "Today's date is June 01, 2025.", resp)
}

func TestHandleReminderLifecycle(t *testing.T) {
	d, _ := newTestDispatcher(t, Capabilities{})
	ctx := context.Background()

	// Missing time is a usage hint, not an error.
	resp, err := d.Handle(ctx, "user1", "set reminder for the meeting")
	require.NoError(t, err)
	assert.Equal(t, "Please specify a time (e.g., 'set reminder for meeting at 3pm').", resp)

	resp, err = d.Handle(ctx, "user1", "set reminder for meeting at 3pm")
	require.NoError(t, err)
	assert.Contains(t, resp, "One-time reminder set for 'meeting' at ")

	resp, err = d.Handle(ctx, "user1", "show my reminders")
	require.NoError(t, err)
	assert.Contains(t, resp, "Your reminders:")
	assert.Contains(t, resp, "meeting")

	resp, err = d.Handle(ctx, "user1", "delete my meeting reminder")
	require.NoError(t, err)
	assert.Equal(t, "Reminder for 'meeting' deleted.", resp)

	resp, err = d.Handle(ctx, "user1", "show my reminders")
	require.NoError(t, err)
	assert.Equal(t, "No reminders found.", resp)
}

func TestHandleInjectsPriorContext(t *testing.T) {
	fc := &fakeCompletion{answer: "42"}
	d, _ := newTestDispatcher(t, Capabilities{Completion: fc})
	ctx := context.Background()

	_, err := d.Handle(ctx, "user1", "tell me about black holes")
	require.NoError(t, err)

	_, err = d.Handle(ctx, "user1", "what was my previous question")
	require.NoError(t, err)

	require.Len(t, fc.prompts, 2)
	assert.Contains(t, fc.prompts[1], "Previous query: tell me about black holes")
	assert.Contains(t, fc.prompts[1], "Previous response: 42")
}

func TestHandleUnconfiguredCapabilities(t *testing.T) {
	d, _ := newTestDispatcher(t, Capabilities{})
	ctx := context.Background()

	resp, err := d.Handle(ctx, "user1", "what's the weather in Mumbai")
	require.NoError(t, err)
	assert.Equal(t, "Weather API key not configured.", resp)

	resp, err = d.Handle(ctx, "user1", "any news today")
	require.NoError(t, err)
	assert.Equal(t, "News API key not configured.", resp)

	resp, err = d.Handle(ctx, "user1", "who was the first person on the moon")
	require.NoError(t, err)
	assert.Equal(t, "General query support is unavailable. Please check the completion model configuration.", resp)
}

func TestHandleWhatsAppMessage(t *testing.T) {
	br := &fakeBrowser{}
	d, _ := newTestDispatcher(t, Capabilities{Browser: br})

	resp, err := d.Handle(context.Background(), "user1",
		"send a whatsapp message to +91 98765 43210 saying running late")
	require.NoError(t, err)
	assert.Contains(t, resp, "Opening WhatsApp to send a message to +919876543210")
	require.Len(t, br.urls, 1)
	assert.Equal(t, "https://web.whatsapp.com/send?phone=+919876543210&text=running+late", br.urls[0])
}

func TestHandleAppendsSessionLog(t *testing.T) {
	d, st := newTestDispatcher(t, Capabilities{})
	ctx := context.Background()

	_, err := d.Handle(ctx, "user1", "Hey Majordomo, what's the time?")
	require.NoError(t, err)

	last, err := st.Sessions().Last(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, "what's the time", last.Query)
	assert.True(t, strings.HasPrefix(last.Response, "The current time is"))
}
