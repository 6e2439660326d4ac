package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Till      TillConfig      `yaml:"till"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// CORSOrigins lists the browser origins allowed to call the REST API.
	// Empty allows any origin.
	CORSOrigins []string `yaml:"cors_origins"`
}

// TransportConfig selects how the till is served: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// TillConfig holds the session lifecycle tunables and side files.
type TillConfig struct {
	CountThreshold string `yaml:"count_threshold"`
	StaleAfter     string `yaml:"stale_after"`
	ArchivePath    string `yaml:"archive_path"`
	MenuPath       string `yaml:"menu_path"`
}

// Threshold is the smallest counted amount recorded on a session.
func (t TillConfig) Threshold() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(t.CountThreshold)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid count threshold %q: %w", t.CountThreshold, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid count threshold %q: must be positive", t.CountThreshold)
	}
	return d, nil
}

// StaleDuration is how long a session may stay open before it is stale.
func (t TillConfig) StaleDuration() (time.Duration, error) {
	d, err := time.ParseDuration(t.StaleAfter)
	if err != nil {
		return 0, fmt.Errorf("invalid stale_after %q: %w", t.StaleAfter, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid stale_after %q: must be positive", t.StaleAfter)
	}
	return d, nil
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Path: "fete.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Till: TillConfig{
			CountThreshold: "0.01",
			StaleAfter:     "12h",
			ArchivePath:    "counts.db",
		},
	}

	if path := os.Getenv("FETE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("FETE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("FETE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FETE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if origins := os.Getenv("FETE_CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = splitList(origins)
	}
	if mode := os.Getenv("FETE_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if dbPath := os.Getenv("FETE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("FETE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("FETE_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if archive := os.Getenv("FETE_ARCHIVE_PATH"); archive != "" {
		cfg.Till.ArchivePath = archive
	}
	if menu := os.Getenv("FETE_MENU_PATH"); menu != "" {
		cfg.Till.MenuPath = menu
	}
	if threshold := os.Getenv("FETE_COUNT_THRESHOLD"); threshold != "" {
		cfg.Till.CountThreshold = threshold
	}
	if staleAfter := os.Getenv("FETE_STALE_AFTER"); staleAfter != "" {
		cfg.Till.StaleAfter = staleAfter
	}

	if cfg.Transport.Mode != "stdio" && cfg.Transport.Mode != "http" {
		return Config{}, fmt.Errorf("invalid transport mode %q", cfg.Transport.Mode)
	}
	if _, err := cfg.Till.Threshold(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Till.StaleDuration(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
