package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
)

// Accepted shared-secret header names.
var secretHeaders = []string{"X-Webhook-Secret", "X-Kimitter-Secret"}

// Server exposes the inbound webhook endpoint plus liveness and
// activity views.
type Server struct {
	Handler *Handler
	Secret  string

	router *mux.Router
}

func NewServer(handler *Handler, secret string) *Server {
	s := &Server{
		Handler: handler,
		Secret:  secret,
		router:  mux.NewRouter(),
	}
	s.router.HandleFunc("/webhook", s.handleWebhook).Methods(http.MethodPost)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	return s
}

// Router returns the HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the webhook endpoints.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("webhook server listening")
	return srv.ListenAndServe()
}

// handleWebhook validates the payload, then dispatches the event to
// the reply handler without waiting and answers immediately. The spawn
// is supervised: a panicking handler only ever reaches the recover
// boundary, never the process.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if s.Secret != "" && !s.secretMatches(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid webhook secret"})
		return
	}

	var ev domain.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed payload"})
		return
	}
	if missing := validateEvent(ev); missing != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing field: " + missing})
		return
	}

	// Normalize an empty parent id to "not a nested comment".
	if ev.ParentCommentID != nil && *ev.ParentCommentID == "" {
		ev.ParentCommentID = nil
	}

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("comment_id", ev.CommentID).Msg("webhook handler panicked")
			}
		}()
		s.Handler.HandleCommentEvent(context.Background(), ev)
	}()

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStats reports the per-bot activity counters from the log.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	type botStats struct {
		Bot         string `json:"bot"`
		Username    string `json:"username"`
		Posts       int    `json:"posts"`
		PostDate    string `json:"postDate,omitempty"`
		Comments    int    `json:"comments"`
		CommentDate string `json:"commentDate,omitempty"`
	}

	stats := []botStats{}
	if s.Handler.Store != nil {
		for botType, client := range s.Handler.Registry.Clients() {
			posts, postDate, _ := s.Handler.Store.GetPostStats(client.Username())
			comments, commentDate, _ := s.Handler.Store.GetCommentStats(client.Username())
			stats = append(stats, botStats{
				Bot:         string(botType),
				Username:    client.Username(),
				Posts:       posts,
				PostDate:    postDate,
				Comments:    comments,
				CommentDate: commentDate,
			})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (s *Server) secretMatches(r *http.Request) bool {
	for _, h := range secretHeaders {
		if r.Header.Get(h) == s.Secret {
			return true
		}
	}
	return false
}

// validateEvent returns the name of the first missing required field.
func validateEvent(ev domain.WebhookEvent) string {
	switch {
	case ev.PostID == "":
		return "postId"
	case ev.CommentID == "":
		return "commentId"
	case ev.CommentContent == "":
		return "commentContent"
	case ev.CommentAuthor.ID == "":
		return "commentAuthor.id"
	case ev.CommentAuthor.Username == "":
		return "commentAuthor.username"
	case ev.CommentAuthor.Role == "":
		return "commentAuthor.role"
	case ev.PostAuthorUsername == "":
		return "postAuthorUsername"
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
