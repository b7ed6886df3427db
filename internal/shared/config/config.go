package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const devBackendURL = "http://localhost:8080"

// Config holds application configuration.
type Config struct {
	Port                string        `yaml:"port"`
	Env                 string        `yaml:"env"`
	BackendURL          string        `yaml:"backendUrl"`
	BackendTimeout      time.Duration `yaml:"backendTimeout"`
	BackendMaxInFlight  int           `yaml:"backendMaxInFlight"`
	HistoryRefreshDelay time.Duration `yaml:"historyRefreshDelay"`
	CORSAllowOrigin     []string      `yaml:"corsAllowOrigins"`
	DatabaseURL         string        `yaml:"databaseUrl"`
	SubmitRatePerSec    float64       `yaml:"submitRatePerSec"`
	SubmitBurst         int           `yaml:"submitBurst"`
	PageRatePerSec      float64       `yaml:"pageRatePerSec"`
	PageBurst           int           `yaml:"pageBurst"`
	SessionIdleTimeout  time.Duration `yaml:"sessionIdleTimeout"`
	DisplayTimezone     string        `yaml:"displayTimezone"`
	LogLevel            string        `yaml:"logLevel"`
}

// Load reads configuration from defaults, an optional YAML file named by CONSOLE_CONFIG,
// and environment variables, in increasing order of precedence.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg := defaultConfig()
	if path := os.Getenv("CONSOLE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	cfg.Env = normalizeEnv(cfg.Env)
	if cfg.BackendURL == "" {
		if cfg.Env != "dev" && cfg.Env != "local" {
			return Config{}, errors.New("BACKEND_URL is required outside dev and local")
		}
		cfg.BackendURL = devBackendURL
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Port:                "8000",
		Env:                 "dev",
		BackendTimeout:      60 * time.Second,
		BackendMaxInFlight:  16,
		HistoryRefreshDelay: 500 * time.Millisecond,
		CORSAllowOrigin:     []string{"http://localhost:8000"},
		SubmitRatePerSec:    1,
		SubmitBurst:         3,
		PageRatePerSec:      0.5,
		PageBurst:           10,
		SessionIdleTimeout:  10 * time.Minute,
		DisplayTimezone:     "Local",
		LogLevel:            "info",
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.BackendURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.CORSAllowOrigin = splitAndTrim(v)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("DISPLAY_TIMEZONE"); v != "" {
		cfg.DisplayTimezone = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"BACKEND_TIMEOUT", &cfg.BackendTimeout},
		{"HISTORY_REFRESH_DELAY", &cfg.HistoryRefreshDelay},
		{"SESSION_IDLE_TIMEOUT", &cfg.SessionIdleTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	for _, r := range []struct {
		key string
		dst *float64
	}{
		{"SUBMIT_RATE_PER_SEC", &cfg.SubmitRatePerSec},
		{"PAGE_RATE_PER_SEC", &cfg.PageRatePerSec},
	} {
		v := os.Getenv(r.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", r.key, err)
		}
		*r.dst = parsed
	}

	for _, n := range []struct {
		key string
		dst *int
	}{
		{"SUBMIT_BURST", &cfg.SubmitBurst},
		{"PAGE_BURST", &cfg.PageBurst},
		{"BACKEND_MAX_INFLIGHT", &cfg.BackendMaxInFlight},
	} {
		v := os.Getenv(n.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", n.key, err)
		}
		*n.dst = parsed
	}
	return nil
}

func (c Config) validate() error {
	switch {
	case c.BackendTimeout <= 0:
		return errors.New("backend timeout must be positive")
	case c.HistoryRefreshDelay < 0:
		return errors.New("history refresh delay must not be negative")
	case c.SessionIdleTimeout <= 0:
		return errors.New("session idle timeout must be positive")
	case c.SubmitRatePerSec <= 0 || c.SubmitBurst <= 0:
		return errors.New("submit rate and burst must be positive")
	case c.PageRatePerSec <= 0 || c.PageBurst <= 0:
		return errors.New("page rate and burst must be positive")
	}
	if _, err := time.LoadLocation(c.DisplayTimezone); err != nil {
		return fmt.Errorf("invalid display timezone: %w", err)
	}
	return nil
}

// Location resolves DisplayTimezone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
