package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/theo-privacy/theo/internal/alert"
	"github.com/theo-privacy/theo/internal/detect"
	"github.com/theo-privacy/theo/internal/pii"
	"github.com/theo-privacy/theo/internal/profile"
	"github.com/theo-privacy/theo/internal/redact"
	"github.com/theo-privacy/theo/internal/session"
)

type messageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	SessionID      string           `json:"session_id"`
	Message        session.Message  `json:"message"`
	Profile        profile.Snapshot `json:"profile"`
	QuickInference *string          `json:"quick_inference"`
	Degraded       bool             `json:"degraded"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeError(w, http.StatusBadRequest, "message content is required")
		return
	}
	role := req.Role
	if role == "" {
		role = "user"
	}

	sess := s.sessions.GetOrCreate(r.Header.Get(sessionHeader))
	ctx := r.Context()

	started := time.Now()
	result, err := sess.Append(ctx, role, content)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, "role must be 'user' or 'assistant'")
		case errors.Is(err, pii.ErrInvalidOffsets):
			s.logger.Error("detector returned invalid offsets", "session_id", sess.ID(), "error", err)
			writeError(w, http.StatusBadGateway, "entity detector returned a malformed response")
		default:
			s.logger.Error("append failed", "session_id", sess.ID(), "error", err)
			writeError(w, http.StatusInternalServerError, "failed to analyze message")
		}
		return
	}

	s.telemetry.RecordAnalysis(role, len(result.Message.Entities), result.Score,
		float64(time.Since(started))/float64(time.Millisecond), result.Degraded)
	s.logger.Info("message analyzed",
		"session_id", sess.ID(),
		"message_index", result.Index,
		"entities", len(result.Message.Entities),
		"score", result.Score,
		"degraded", result.Degraded,
		"preview", redact.Preview(content, s.cfg.Logging.MessageLevel, 200),
	)

	snapshot := sess.ProfileSnapshot()

	for _, threshold := range alert.Crossed(result.PreviousScore, result.Score, s.cfg.Alerts.Thresholds) {
		s.logger.Warn("identifiability threshold crossed",
			"session_id", sess.ID(), "threshold", threshold,
			"score", result.Score, "previous_score", result.PreviousScore)
		s.alerts.Emit(&alert.Event{
			SessionID:     sess.ID(),
			Score:         result.Score,
			PreviousScore: result.PreviousScore,
			Threshold:     threshold,
			TotalEntities: snapshot.TotalEntities,
			Categories:    categoryKeys(snapshot),
			Timestamp:     time.Now().UTC(),
		})
	}

	var quick *string
	if s.narrator.Available() && snapshot.TotalEntities > 0 {
		piiContext, _ := sess.InferenceContext()
		if text, err := s.narrator.QuickNarrate(ctx, piiContext); err != nil {
			s.logger.Warn("quick narration failed", "session_id", sess.ID(), "error", err)
		} else {
			quick = &text
		}
	}

	w.Header().Set(sessionHeader, sess.ID())
	writeJSON(w, http.StatusOK, messageResponse{
		SessionID:      sess.ID(),
		Message:        result.Message,
		Profile:        snapshot,
		QuickInference: quick,
		Degraded:       result.Degraded,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.GetOrCreate(r.Header.Get(sessionHeader))

	w.Header().Set(sessionHeader, sess.ID())
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":          sess.ID(),
		"profile":             sess.ProfileSnapshot(),
		"message_count":       sess.MessageCount(),
		"inference_available": s.narrator.Available(),
	})
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(sessionHeader)
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id": id,
			"messages":   []session.Message{},
		})
		return
	}

	w.Header().Set(sessionHeader, sess.ID())
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID(),
		"messages":   sess.Messages(),
	})
}

func (s *Server) handleInfer(w http.ResponseWriter, r *http.Request) {
	if !s.narrator.Available() {
		writeError(w, http.StatusServiceUnavailable, "narration provider not configured")
		return
	}

	sess, ok := s.sessions.Get(r.Header.Get(sessionHeader))
	if !ok || sess.MessageCount() == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"inference":    "No messages in the conversation yet. Add some messages to see what can be inferred.",
			"profile_hash": "",
		})
		return
	}

	piiContext, hash := sess.InferenceContext()

	if cached, ok := sess.CachedNarration(); ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"inference":    cached,
			"profile_hash": hash,
			"cached":       true,
		})
		return
	}

	text, err := s.narrator.Narrate(r.Context(), piiContext)
	if err != nil {
		s.logger.Error("narration failed", "session_id", sess.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate inference")
		return
	}
	sess.StoreNarration(text, hash)

	writeJSON(w, http.StatusOK, map[string]any{
		"inference":    text,
		"profile_hash": hash,
		"cached":       false,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if id := r.Header.Get(sessionHeader); id != "" {
		s.sessions.Destroy(id)
	}

	fresh := s.sessions.GetOrCreate("")
	w.Header().Set(sessionHeader, fresh.ID())
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"new_session_id": fresh.ID(),
	})
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	var entities []string
	if lister, ok := s.detector.(detect.EntityLister); ok {
		entities = lister.SupportedEntities()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entities": entities,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "healthy",
		"inference_available": s.narrator.Available(),
	})
}

func categoryKeys(snapshot profile.Snapshot) []string {
	keys := make([]string, 0, len(snapshot.Categories))
	for k := range snapshot.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
