// Package server exposes the disclosure tracker over HTTP. Transport
// only: every rule about filtering, aggregation, and scoring lives in
// the session/profile packages.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/theo-privacy/theo/internal/alert"
	"github.com/theo-privacy/theo/internal/config"
	"github.com/theo-privacy/theo/internal/detect"
	"github.com/theo-privacy/theo/internal/inference"
	"github.com/theo-privacy/theo/internal/provider"
	"github.com/theo-privacy/theo/internal/session"
	"github.com/theo-privacy/theo/internal/telemetry"
)

// sessionHeader carries the conversation identity. The server mints an
// id when the client does not present one and always echoes it back.
const sessionHeader = "X-Session-ID"

// Server wraps the HTTP layer around the session manager.
type Server struct {
	router    chi.Router
	cfg       *config.Config
	sessions  *session.Manager
	detector  detect.Detector
	narrator  *inference.Engine
	alerts    *alert.Emitter
	telemetry *telemetry.Provider
	logger    *slog.Logger
}

// New builds a fully wired server from config.
func New(cfg *config.Config, tel *telemetry.Provider, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	detector, err := buildDetector(cfg)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(session.Config{
		Detector:  detector,
		Threshold: cfg.Detector.ConfidenceThreshold,
		Language:  cfg.Detector.Language,
		Timeout:   time.Duration(cfg.Detector.TimeoutSeconds) * time.Second,
		Logger:    logger,
	}, time.Duration(cfg.Sessions.TTLMinutes)*time.Minute)

	narrator := buildNarrator(cfg, logger)

	alerts, err := buildAlerts(cfg, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		sessions:  sessions,
		detector:  detector,
		narrator:  narrator,
		alerts:    alerts,
		telemetry: tel,
		logger:    logger,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(corsMiddleware(cfg.Server.CORSOrigins))

	router.Get("/healthz", s.handleHealth)
	router.Route("/api", func(r chi.Router) {
		r.Post("/message", s.handleMessage)
		r.Get("/profile", s.handleProfile)
		r.Get("/conversation", s.handleConversation)
		r.Post("/infer", s.handleInfer)
		r.Post("/reset", s.handleReset)
		r.Get("/entities", s.handleEntities)
	})
	s.router = router

	return s, nil
}

func buildDetector(cfg *config.Config) (detect.Detector, error) {
	switch cfg.Detector.Mode {
	case "regex":
		return detect.NewRegexDetector(), nil
	case "remote":
		timeout := time.Duration(cfg.Detector.TimeoutSeconds) * time.Second
		return detect.NewRemoteDetector(cfg.Detector.RemoteURL, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported detector mode %q", cfg.Detector.Mode)
	}
}

func buildNarrator(cfg *config.Config, logger *slog.Logger) *inference.Engine {
	if cfg.Inference.Provider != "openai" {
		return inference.New(nil, "")
	}
	apiKey := os.Getenv(cfg.Inference.APIKeyEnv)
	if apiKey == "" {
		logger.Warn("narration disabled: API key environment variable is empty",
			"env", cfg.Inference.APIKeyEnv)
		return inference.New(nil, "")
	}
	timeout := time.Duration(cfg.Inference.TimeoutSeconds) * time.Second
	prov := provider.NewOpenAI(cfg.Inference.BaseURL, apiKey, timeout)
	return inference.New(prov, cfg.Inference.Model)
}

// buildAlerts assembles the alert emitter from configured sinks. No
// sinks means no emitter; threshold crossings are then log-only.
func buildAlerts(cfg *config.Config, logger *slog.Logger) (*alert.Emitter, error) {
	var sinks []alert.Sink

	if cfg.Alerts.File != "" {
		sink, err := alert.NewFileSink(cfg.Alerts.File)
		if err != nil {
			return nil, fmt.Errorf("alert file sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Alerts.WebhookURL != "" {
		timeout := time.Duration(cfg.Alerts.WebhookTimeoutSeconds) * time.Second
		sink, err := alert.NewWebhookSink(cfg.Alerts.WebhookURL, cfg.Alerts.WebhookHeaders, timeout)
		if err != nil {
			return nil, fmt.Errorf("alert webhook sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if len(sinks) == 0 {
		return nil, nil
	}

	return alert.NewEmitter(alert.EmitterConfig{
		QueueSize: cfg.Alerts.QueueSize,
		Logger:    logger,
	}, sinks), nil
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close drains the alert queue. Safe to call once at shutdown.
func (s *Server) Close(ctx context.Context) {
	s.alerts.Close(ctx)
}

// Start runs the HTTP server on the given address.
func (s *Server) Start(addr string) error {
	s.logger.Info("theo listening", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}
