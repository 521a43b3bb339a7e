// Package session holds per-conversation state: the ordered message list
// and the live PII profile built from it. A session moves from Empty to
// Active on the first append and back to Empty only via Reset.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/theo-privacy/theo/internal/detect"
	"github.com/theo-privacy/theo/internal/pii"
	"github.com/theo-privacy/theo/internal/profile"
)

// Message is one conversational turn with its resolved entities.
type Message struct {
	Role      string       `json:"role"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	Entities  []pii.Entity `json:"pii_entities"`
}

// ErrInvalidRole reports a role outside the user|assistant vocabulary.
var ErrInvalidRole = errors.New("session: role must be \"user\" or \"assistant\"")

// AppendResult reports the outcome of analyzing and recording a message.
type AppendResult struct {
	Message       Message
	Index         int
	Score         int
	PreviousScore int
	Degraded      bool // detector failed; message recorded without entities
}

// Session is one tracked conversation. Append is a critical section: the
// message list and profile always update together or not at all. Reads
// may run concurrently with each other but never interleave with an
// in-progress append.
type Session struct {
	id        string
	detector  detect.Detector
	threshold float64
	language  string
	timeout   time.Duration
	logger    *slog.Logger

	mu       sync.RWMutex
	messages []Message
	profile  *profile.Profile
	lastSeen time.Time

	// narration cache, invalidated whenever the profile changes
	narration     string
	narrationHash string
}

// Config carries the analysis settings a session runs with.
type Config struct {
	Detector  detect.Detector
	Threshold float64
	Language  string
	Timeout   time.Duration
	Logger    *slog.Logger
}

func newSession(id string, cfg Config) *Session {
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = pii.DefaultConfidenceThreshold
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		id:        id,
		detector:  cfg.Detector,
		threshold: threshold,
		language:  language,
		timeout:   timeout,
		logger:    logger,
		profile:   profile.New(),
		lastSeen:  time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Append analyzes text and records it as the next message. If the
// detector fails or times out the message is still recorded with an
// empty entity list: disclosure tracking degrades, conversational
// history never drops. A malformed detector response (offsets outside
// the text) surfaces as an error and leaves the session untouched.
func (s *Session) Append(ctx context.Context, role, content string) (AppendResult, error) {
	if role != "user" && role != "assistant" {
		return AppendResult{}, ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	index := len(s.messages)
	previous := s.profile.Score()
	entities, degraded, err := s.analyze(ctx, content, index)
	if err != nil {
		return AppendResult{}, err
	}

	msg := Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Entities:  entities,
	}
	s.messages = append(s.messages, msg)
	s.profile.Absorb(entities...)
	s.narration = ""
	s.narrationHash = ""

	return AppendResult{
		Message:       msg,
		Index:         index,
		Score:         s.profile.Score(),
		PreviousScore: previous,
		Degraded:      degraded,
	}, nil
}

// analyze runs the detector pipeline: detect, filter, normalize. The
// entity slice is fully built before any session state changes, so a
// normalization failure cannot leave a half-updated profile.
func (s *Session) analyze(ctx context.Context, content string, index int) ([]pii.Entity, bool, error) {
	if s.detector == nil {
		return nil, false, nil
	}

	dctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	dets, err := s.detector.Analyze(dctx, content, s.language)
	if err != nil {
		s.logger.Warn("entity detection unavailable, recording message without entities",
			"session_id", s.id, "message_index", index, "error", err)
		return nil, true, nil
	}

	kept := pii.Filter(dets, s.threshold)
	entities := make([]pii.Entity, 0, len(kept))
	for _, d := range kept {
		e, err := pii.Normalize(content, d, index)
		if err != nil {
			return nil, false, fmt.Errorf("normalize detection %s: %w", d.EntityType, err)
		}
		entities = append(entities, e)
	}
	return entities, false, nil
}

// Reset discards all messages and replaces the profile with an empty
// one, returning the session to its initial state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.profile = profile.New()
	s.narration = ""
	s.narrationHash = ""
	s.lastSeen = time.Now()
}

// Score recomputes the identifiability score from the current profile.
func (s *Session) Score() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Score()
}

// Messages returns a copy of the ordered message list.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// MessageCount returns the number of recorded messages.
func (s *Session) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// ProfileSnapshot returns the wire form of the current profile.
func (s *Session) ProfileSnapshot() profile.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Snapshot()
}

// InferenceContext returns the flattened profile rendering and its hash.
func (s *Session) InferenceContext() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.InferenceContext(), s.profile.Hash()
}

// CachedNarration returns the stored narration when it still matches the
// current profile hash.
func (s *Session) CachedNarration() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.narration == "" || s.narrationHash != s.profile.Hash() {
		return "", false
	}
	return s.narration, true
}

// StoreNarration caches a narration keyed by the profile hash it was
// generated from.
func (s *Session) StoreNarration(text, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.narration = text
	s.narrationHash = hash
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) seen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}
