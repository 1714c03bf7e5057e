package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	pkgconfig "clientportal/pkg/config"
)

// SessionConfig selects where session slots live.
type SessionConfig struct {
	Backend    string `yaml:"backend"` // memory / redis
	KeyPrefix  string `yaml:"key_prefix"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// EmailJSConfig identifies the templated-email collaborator.
type EmailJSConfig struct {
	Endpoint              string `yaml:"endpoint"`
	ServiceID             string `yaml:"service_id"`
	PublicKey             string `yaml:"public_key"`
	AccessToken           string `yaml:"access_token"`
	ChangeRequestTemplate string `yaml:"change_request_template"`
	ProposalTemplate      string `yaml:"proposal_template"`
	TimeoutSeconds        int    `yaml:"timeout_seconds"`
}

// NotificationConfig controls how outbound emails leave the portal.
type NotificationConfig struct {
	Backend             string        `yaml:"backend"` // direct / queue
	TeamName            string        `yaml:"team_name"`
	DedupeWindowSeconds int           `yaml:"dedupe_window_seconds"`
	EmailJS             EmailJSConfig `yaml:"emailjs"`
}

// OutboxConfig tunes the outbox dispatcher used by the queue backend when
// the DB is enabled.
type OutboxConfig struct {
	MaxRetries int `yaml:"max_retries"`
	BatchSize  int `yaml:"batch_size"`
	IntervalMS int `yaml:"interval_ms"`
}

type Config struct {
	Server       pkgconfig.ServerConfig    `yaml:"server"`
	JWT          pkgconfig.JWTConfig       `yaml:"jwt"`
	Redis        pkgconfig.RedisConfig     `yaml:"redis"`
	DB           pkgconfig.DBConfig        `yaml:"db"`
	MQ           pkgconfig.MQConfig        `yaml:"mq"`
	Session      SessionConfig             `yaml:"session"`
	Notification NotificationConfig        `yaml:"notification"`
	Outbox       OutboxConfig              `yaml:"outbox"`
	Telemetry    pkgconfig.TelemetryConfig `yaml:"telemetry"`
}

// Load reads CONFIG_DIR (default "config") for CONFIG_ENV (default "local")
// and applies environment overrides.
func Load() (*Config, error) {
	env := pkgconfig.GetConfigEnv()
	configDir := pkgconfig.GetEnv("CONFIG_DIR", "config")

	cfgMap, err := pkgconfig.LoadConfig(env, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := pkgconfig.Decode(cfgMap, &cfg); err != nil {
		return nil, err
	}

	overrideFromEnv(&cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func overrideFromEnv(cfg *Config) {
	pkgconfig.OverrideServerFromEnv(&cfg.Server)
	pkgconfig.OverrideJWTFromEnv(&cfg.JWT)
	pkgconfig.OverrideRedisFromEnv(&cfg.Redis)
	pkgconfig.OverrideDBFromEnv(&cfg.DB)
	pkgconfig.OverrideMQFromEnv(&cfg.MQ)
	pkgconfig.OverrideTelemetryFromEnv(&cfg.Telemetry)

	if backend := os.Getenv("SESSION_BACKEND"); backend != "" {
		cfg.Session.Backend = backend
	}
	if backend := os.Getenv("NOTIFICATION_BACKEND"); backend != "" {
		cfg.Notification.Backend = backend
	}
	if key := os.Getenv("EMAILJS_PUBLIC_KEY"); key != "" {
		cfg.Notification.EmailJS.PublicKey = key
	}
	if token := os.Getenv("EMAILJS_ACCESS_TOKEN"); token != "" {
		cfg.Notification.EmailJS.AccessToken = token
	}
	if window := os.Getenv("NOTIFICATION_DEDUPE_WINDOW_SECONDS"); window != "" {
		if s, err := strconv.Atoi(window); err == nil {
			cfg.Notification.DedupeWindowSeconds = s
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.JWT.TTLHours <= 0 {
		c.JWT.TTLHours = 12
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}
	if c.Session.KeyPrefix == "" {
		c.Session.KeyPrefix = "aida_corp_client_session"
	}
	if c.Session.TTLMinutes <= 0 {
		c.Session.TTLMinutes = c.JWT.TTLHours * 60
	}
	if c.Notification.Backend == "" {
		c.Notification.Backend = "direct"
	}
	if c.Notification.TeamName == "" {
		c.Notification.TeamName = "Aaida Corp Team"
	}
	if c.Notification.EmailJS.Endpoint == "" {
		c.Notification.EmailJS.Endpoint = "https://api.emailjs.com/api/v1.0/email/send"
	}
	if c.Notification.EmailJS.TimeoutSeconds <= 0 {
		c.Notification.EmailJS.TimeoutSeconds = 10
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "clientportal"
	}
	if c.MQ.Exchange == "" {
		c.MQ.Exchange = "portal.events"
	}
	if c.Outbox.MaxRetries <= 0 {
		c.Outbox.MaxRetries = 5
	}
	if c.Outbox.BatchSize <= 0 {
		c.Outbox.BatchSize = 100
	}
	if c.Outbox.IntervalMS <= 0 {
		c.Outbox.IntervalMS = 1000
	}
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" || strings.HasPrefix(c.JWT.Secret, "${") {
		return fmt.Errorf("jwt.secret is required")
	}
	switch c.Session.Backend {
	case "memory":
	case "redis":
		if !c.Redis.Enabled {
			return fmt.Errorf("session backend redis requires redis.enabled")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	switch c.Notification.Backend {
	case "direct":
	case "queue":
		if c.MQ.URL == "" {
			return fmt.Errorf("notification backend queue requires mq.url")
		}
	default:
		return fmt.Errorf("unknown notification backend %q", c.Notification.Backend)
	}
	return nil
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.TTLHours) * time.Hour
}

func (c *Config) DedupeWindow() time.Duration {
	return time.Duration(c.Notification.DedupeWindowSeconds) * time.Second
}

func (c *Config) EmailJSTimeout() time.Duration {
	return time.Duration(c.Notification.EmailJS.TimeoutSeconds) * time.Second
}

func (c *Config) OutboxInterval() time.Duration {
	return time.Duration(c.Outbox.IntervalMS) * time.Millisecond
}
