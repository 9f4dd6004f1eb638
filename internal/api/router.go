package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/majordomo-ai/majordomo/internal/api/recovery"
)

// NewRouter builds the HTTP route table with panic recovery applied to
// every handler.
func (s *Server) NewRouter() http.Handler {
	r := mux.NewRouter()
	r.Use(recovery.Middleware)

	r.HandleFunc("/ask", s.handleAsk).Methods(http.MethodPost)
	r.HandleFunc("/close_camera", s.handleCloseCamera).Methods(http.MethodPost)
	r.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	return r
}
