package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":5001" {
		t.Fatalf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Detector.Mode != "regex" {
		t.Fatalf("Mode = %q", cfg.Detector.Mode)
	}
	if cfg.Detector.ConfidenceThreshold != 0.4 {
		t.Fatalf("ConfidenceThreshold = %v", cfg.Detector.ConfidenceThreshold)
	}
	if cfg.Sessions.TTLMinutes != 30 {
		t.Fatalf("TTLMinutes = %d", cfg.Sessions.TTLMinutes)
	}
	if cfg.Logging.MessageLevel != "metadata" {
		t.Fatalf("MessageLevel = %q", cfg.Logging.MessageLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theo.yaml")
	data := `
server:
  addr: ":9000"
detector:
  mode: remote
  remote_url: http://localhost:5002
  confidence_threshold: 0.6
logging:
  message_level: redacted
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Detector.Mode != "remote" || cfg.Detector.RemoteURL != "http://localhost:5002" {
		t.Fatalf("detector = %+v", cfg.Detector)
	}
	if cfg.Detector.ConfidenceThreshold != 0.6 {
		t.Fatalf("ConfidenceThreshold = %v", cfg.Detector.ConfidenceThreshold)
	}
	// Omitted fields are filled from defaults.
	if cfg.Detector.Language != "en" {
		t.Fatalf("Language = %q", cfg.Detector.Language)
	}
	if cfg.Sessions.TTLMinutes != 30 {
		t.Fatalf("TTLMinutes = %d", cfg.Sessions.TTLMinutes)
	}
	if cfg.Inference.Model != "gpt-4o-mini" {
		t.Fatalf("Model = %q", cfg.Inference.Model)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theo.yaml")
	if err := os.WriteFile(path, []byte("server: [not a mapping"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		return cfg
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"remote with url", func(c *Config) {
			c.Detector.Mode = "remote"
			c.Detector.RemoteURL = "http://localhost:5002"
		}, false},
		{"remote without url", func(c *Config) {
			c.Detector.Mode = "remote"
			c.Detector.RemoteURL = "  "
		}, true},
		{"unknown detector mode", func(c *Config) { c.Detector.Mode = "ml" }, true},
		{"negative detector timeout", func(c *Config) { c.Detector.TimeoutSeconds = -1 }, true},
		{"negative session ttl", func(c *Config) { c.Sessions.TTLMinutes = -5 }, true},
		{"openai provider", func(c *Config) { c.Inference.Provider = "openai" }, false},
		{"unknown provider", func(c *Config) { c.Inference.Provider = "anthropic" }, true},
		{"full message level", func(c *Config) { c.Logging.MessageLevel = "full" }, false},
		{"unknown message level", func(c *Config) { c.Logging.MessageLevel = "verbose" }, true},
		{"alert thresholds in range", func(c *Config) { c.Alerts.Thresholds = []int{10, 90} }, false},
		{"alert threshold zero", func(c *Config) { c.Alerts.Thresholds = []int{0} }, true},
		{"alert threshold above 100", func(c *Config) { c.Alerts.Thresholds = []int{150} }, true},
		{"negative webhook timeout", func(c *Config) { c.Alerts.WebhookTimeoutSeconds = -1 }, true},
		{"http telemetry protocol", func(c *Config) { c.Telemetry.Protocol = "http" }, false},
		{"unknown telemetry protocol", func(c *Config) { c.Telemetry.Protocol = "udp" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
