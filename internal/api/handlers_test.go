package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majordomo-ai/majordomo/internal/dispatcher"
	"github.com/majordomo-ai/majordomo/internal/scheduler"
	"github.com/majordomo-ai/majordomo/internal/state"
	"github.com/majordomo-ai/majordomo/internal/store/sqlite"
)

type noopNotifier struct{}

func (noopNotifier) Notify(string) {}

type echoCompletion struct{}

func (echoCompletion) Complete(_ context.Context, prompt string) (string, error) {
	return "echo: " + prompt, nil
}

type staticLang struct{ code string }

func (s staticLang) Detect(string) string { return s.code }

func newTestRouter(t *testing.T, withChat bool) http.Handler {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sched := scheduler.New(st, noopNotifier{}, zerolog.Nop())
	t.Cleanup(sched.Stop)

	proc := state.New()
	d := dispatcher.New(st, sched, proc, dispatcher.Capabilities{}, "majordomo", "Delhi", zerolog.Nop())

	var srv *Server
	if withChat {
		srv = NewServer(d, st, proc, nil, echoCompletion{}, staticLang{code: "hi"}, zerolog.Nop())
	} else {
		srv = NewServer(d, st, proc, nil, nil, nil, zerolog.Nop())
	}
	return srv.NewRouter()
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAskRejectsEmptyQuery(t *testing.T) {
	h := newTestRouter(t, false)

	rr := postJSON(t, h, "/ask", map[string]string{"query": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "No query provided")
}

func TestAskInterpretsCommand(t *testing.T) {
	h := newTestRouter(t, false)

	rr := postJSON(t, h, "/ask", map[string]string{"query": "Hey Majordomo, what's the time?"})
	require.Equal(t, http.StatusOK, rr.Code)

	var out struct {
		Response string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Contains(t, out.Response, "The current time is")
}

func TestAskRejectsBadUserID(t *testing.T) {
	h := newTestRouter(t, false)

	rr := postJSON(t, h, "/ask", map[string]string{"query": "what's the time", "user_id": "Not Valid!"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCloseCameraWithoutSession(t *testing.T) {
	h := newTestRouter(t, false)

	rr := postJSON(t, h, "/close_camera", map[string]string{})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No active camera to close.")
}

func TestChatValidation(t *testing.T) {
	h := newTestRouter(t, true)

	rr := postJSON(t, h, "/chat", map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Empty message")
}

func TestChatUnconfiguredModel(t *testing.T) {
	h := newTestRouter(t, false)

	rr := postJSON(t, h, "/chat", map[string]string{"text": "namaste"})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestChatRepliesInDetectedLanguage(t *testing.T) {
	h := newTestRouter(t, true)

	rr := postJSON(t, h, "/chat", map[string]string{"text": "namaste, kaise ho"})
	require.Equal(t, http.StatusOK, rr.Code)

	var out struct {
		UserMessage string `json:"user_message"`
		FriendReply string `json:"friend_reply"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "namaste, kaise ho", out.UserMessage)
	assert.Contains(t, out.FriendReply, "Detected language: hi")
	assert.Contains(t, out.FriendReply, "namaste, kaise ho")
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "healthy")
}
