package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration invariants that would otherwise surface
// as confusing runtime failures. Call after Load.
func (c *Config) Validate() error {
	switch c.Detector.Mode {
	case "regex":
	case "remote":
		if strings.TrimSpace(c.Detector.RemoteURL) == "" {
			return fmt.Errorf("detector.remote_url is required when detector.mode is %q", c.Detector.Mode)
		}
	default:
		return fmt.Errorf("detector.mode must be \"regex\" or \"remote\", got %q", c.Detector.Mode)
	}

	if c.Detector.TimeoutSeconds < 0 {
		return fmt.Errorf("detector.timeout_seconds must not be negative, got %d", c.Detector.TimeoutSeconds)
	}

	if c.Sessions.TTLMinutes < 0 {
		return fmt.Errorf("sessions.ttl_minutes must not be negative, got %d", c.Sessions.TTLMinutes)
	}

	switch c.Inference.Provider {
	case "", "openai":
	default:
		return fmt.Errorf("inference.provider must be \"openai\" or empty, got %q", c.Inference.Provider)
	}

	for _, th := range c.Alerts.Thresholds {
		if th <= 0 || th > 100 {
			return fmt.Errorf("alerts.thresholds entries must be in 1..100, got %d", th)
		}
	}
	if c.Alerts.WebhookTimeoutSeconds < 0 {
		return fmt.Errorf("alerts.webhook_timeout_seconds must not be negative, got %d", c.Alerts.WebhookTimeoutSeconds)
	}

	switch c.Logging.MessageLevel {
	case "metadata", "redacted", "full":
	default:
		return fmt.Errorf("logging.message_level must be one of metadata|redacted|full, got %q", c.Logging.MessageLevel)
	}

	switch strings.ToLower(c.Telemetry.Protocol) {
	case "", "grpc", "http":
	default:
		return fmt.Errorf("telemetry.protocol must be \"grpc\" or \"http\", got %q", c.Telemetry.Protocol)
	}

	return nil
}
