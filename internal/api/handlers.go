// Package api exposes the assistant over HTTP: command
// interpretation, camera teardown, free-form chat and health.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/majordomo-ai/majordomo/internal/api/respond"
	"github.com/majordomo-ai/majordomo/internal/api/validate"
	"github.com/majordomo-ai/majordomo/internal/capability"
	"github.com/majordomo-ai/majordomo/internal/dispatcher"
	"github.com/majordomo-ai/majordomo/internal/state"
	"github.com/majordomo-ai/majordomo/internal/store"
)

// defaultUserID backs requests that omit user_id; the transport is
// single-user by default.
const defaultUserID = "user1"

// Server carries the handler dependencies.
type Server struct {
	dispatcher *dispatcher.Dispatcher
	store      store.Store
	proc       *state.Process
	camera     capability.Camera
	chat       capability.Completion
	lang       capability.LanguageDetector
	log        zerolog.Logger
}

// NewServer wires the HTTP handlers. camera, chat and lang may be nil
// when the corresponding capability is unconfigured.
func NewServer(d *dispatcher.Dispatcher, st store.Store, proc *state.Process,
	camera capability.Camera, chat capability.Completion, lang capability.LanguageDetector,
	log zerolog.Logger) *Server {
	return &Server{
		dispatcher: d,
		store:      st,
		proc:       proc,
		camera:     camera,
		chat:       chat,
		lang:       lang,
		log:        log,
	}
}

type askRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

type askResponse struct {
	Response string `json:"response"`
}

// handleAsk interprets a natural-language command.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.NonEmpty("query", req.Query); err != nil {
		respond.WriteBadRequest(w, "No query provided")
		return
	}
	if err := validate.MaxLen("query", req.Query, 2000); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	} else if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	text, err := s.dispatcher.Handle(r.Context(), userID, req.Query)
	if err != nil {
		s.log.Error().Err(err).Msg("interpret failed")
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, askResponse{Response: text})
}

// handleCloseCamera ends the active camera session. Closing with no
// session active is a no-op, not an error.
func (s *Server) handleCloseCamera(w http.ResponseWriter, r *http.Request) {
	if !s.proc.StopCamera() {
		respond.WriteJSON(w, http.StatusOK, askResponse{Response: "No active camera to close."})
		return
	}
	if s.camera != nil {
		if err := s.camera.Stop(); err != nil {
			s.log.Error().Err(err).Msg("camera stop failed")
			respond.WriteInternalError(w, fmt.Sprintf("Error closing camera: %v", err))
			return
		}
	}
	respond.WriteJSON(w, http.StatusOK, askResponse{Response: "Camera closed."})
}

type chatRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	UserMessage string `json:"user_message"`
	FriendReply string `json:"friend_reply"`
}

// handleChat is the free-form companion endpoint: it answers in the
// language of the incoming message rather than running the command
// cascade.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	text := strings.TrimSpace(req.Text)
	if err := validate.NonEmpty("text", text); err != nil {
		respond.WriteBadRequest(w, "Empty message")
		return
	}
	if s.chat == nil {
		respond.WriteServiceUnavailable(w, "Chat model not configured")
		return
	}

	lang := "en"
	if s.lang != nil {
		lang = s.lang.Detect(text)
	}
	prompt := fmt.Sprintf(
		"Act like a friendly human friend. Reply casually, short and natural. "+
			"Detected language: %s. Reply in the same language as the user. Message: %s",
		lang, text,
	)
	reply, err := s.chat.Complete(r.Context(), prompt)
	if err != nil {
		s.log.Error().Err(err).Msg("chat completion failed")
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, chatResponse{UserMessage: text, FriendReply: reply})
}

// handleHealth reports service liveness including store connectivity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.HealthPing(r.Context()); err != nil {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
