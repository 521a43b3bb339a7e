package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds Theo configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Detector  DetectorConfig  `yaml:"detector"`
	Sessions  SessionConfig   `yaml:"sessions"`
	Inference InferenceConfig `yaml:"inference"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`         // HTTP listen address, e.g. ":5001"
	CORSOrigins []string `yaml:"cors_origins"` // allowed browser origins
}

type DetectorConfig struct {
	Mode                string  `yaml:"mode"`                 // regex | remote
	RemoteURL           string  `yaml:"remote_url"`           // analyzer base URL when mode=remote
	Language            string  `yaml:"language"`             // e.g. "en"
	ConfidenceThreshold float64 `yaml:"confidence_threshold"` // drop detections below this
	TimeoutSeconds      int     `yaml:"timeout_seconds"`      // per-analysis bound
}

type SessionConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"` // idle sessions are swept after this
}

type InferenceConfig struct {
	Provider       string `yaml:"provider"`    // "openai" or empty to disable narration
	BaseURL        string `yaml:"base_url"`    // e.g. "https://api.openai.com/v1"
	APIKeyEnv      string `yaml:"api_key_env"` // e.g. "OPENAI_API_KEY"
	Model          string `yaml:"model"`       // e.g. "gpt-4o-mini"
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type AlertsConfig struct {
	Thresholds            []int             `yaml:"thresholds"`      // identifiability scores that trigger an alert
	File                  string            `yaml:"file"`            // JSONL sink path; empty disables
	WebhookURL            string            `yaml:"webhook_url"`     // webhook sink; empty disables
	WebhookHeaders        map[string]string `yaml:"webhook_headers"` // extra headers, e.g. auth tokens
	WebhookTimeoutSeconds int               `yaml:"webhook_timeout_seconds"`
	QueueSize             int               `yaml:"queue_size"`
}

type LoggingConfig struct {
	Level        string `yaml:"level"`         // debug | info | warn | error
	MessageLevel string `yaml:"message_level"` // metadata | redacted | full
}

type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Protocol string `yaml:"protocol"` // grpc | http
}

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns a default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":5001",
			CORSOrigins: []string{"http://localhost:5001", "http://127.0.0.1:5001"},
		},
		Detector: DetectorConfig{
			Mode:                "regex",
			Language:            "en",
			ConfidenceThreshold: 0.4,
			TimeoutSeconds:      5,
		},
		Sessions: SessionConfig{
			TTLMinutes: 30,
		},
		Inference: InferenceConfig{
			Provider:       "",
			BaseURL:        "https://api.openai.com/v1",
			APIKeyEnv:      "OPENAI_API_KEY",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 60,
		},
		Alerts: AlertsConfig{
			Thresholds:            []int{25, 50, 75},
			WebhookTimeoutSeconds: 2,
		},
		Logging: LoggingConfig{
			Level:        "info",
			MessageLevel: "metadata",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Protocol: "grpc",
		},
	}
}

func applyDefaults(cfg *Config) {
	def := defaultConfig()

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = def.Server.CORSOrigins
	}

	if cfg.Detector.Mode == "" {
		cfg.Detector.Mode = def.Detector.Mode
	}
	if cfg.Detector.Language == "" {
		cfg.Detector.Language = def.Detector.Language
	}
	if cfg.Detector.ConfidenceThreshold == 0 {
		cfg.Detector.ConfidenceThreshold = def.Detector.ConfidenceThreshold
	}
	if cfg.Detector.TimeoutSeconds == 0 {
		cfg.Detector.TimeoutSeconds = def.Detector.TimeoutSeconds
	}

	if cfg.Sessions.TTLMinutes == 0 {
		cfg.Sessions.TTLMinutes = def.Sessions.TTLMinutes
	}

	if cfg.Inference.BaseURL == "" {
		cfg.Inference.BaseURL = def.Inference.BaseURL
	}
	if cfg.Inference.APIKeyEnv == "" {
		cfg.Inference.APIKeyEnv = def.Inference.APIKeyEnv
	}
	if cfg.Inference.Model == "" {
		cfg.Inference.Model = def.Inference.Model
	}
	if cfg.Inference.TimeoutSeconds == 0 {
		cfg.Inference.TimeoutSeconds = def.Inference.TimeoutSeconds
	}

	if len(cfg.Alerts.Thresholds) == 0 {
		cfg.Alerts.Thresholds = def.Alerts.Thresholds
	}
	if cfg.Alerts.WebhookTimeoutSeconds == 0 {
		cfg.Alerts.WebhookTimeoutSeconds = def.Alerts.WebhookTimeoutSeconds
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.MessageLevel == "" {
		cfg.Logging.MessageLevel = def.Logging.MessageLevel
	}

	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = def.Telemetry.Protocol
	}
}
