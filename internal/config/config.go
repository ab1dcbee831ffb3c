package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Data      DataConfig      `yaml:"data" toml:"data"`
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale" toml:"tailscale"`
	Stats     StatsConfig     `yaml:"stats" toml:"stats"`
	Workout   WorkoutConfig   `yaml:"workout" toml:"workout"`
	Backup    BackupConfig    `yaml:"backup" toml:"backup"`
	Archive   ArchiveConfig   `yaml:"archive" toml:"archive"`
	Import    ImportConfig    `yaml:"import" toml:"import"`
	Log       LogConfig       `yaml:"log" toml:"log"`
}

// DataConfig locates the JSON document. An empty path means the per-user
// default location.
type DataConfig struct {
	Path     string `yaml:"path" toml:"path"`
	AutoSave bool   `yaml:"autosave" toml:"autosave"`
}

type ServerConfig struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port"`
}

// AuthConfig protects mutating HTTP routes. An empty key disables auth.
type AuthConfig struct {
	APIKey string `yaml:"api_key" toml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	Hostname string `yaml:"hostname" toml:"hostname"`
	StateDir string `yaml:"state_dir" toml:"state_dir"`
}

type StatsConfig struct {
	Window int `yaml:"window" toml:"window"`
}

type WorkoutConfig struct {
	DefaultRestSeconds int `yaml:"default_rest_seconds" toml:"default_rest_seconds"`
}

// BackupConfig controls periodic copies of the document. An empty dir
// disables scheduled backups.
type BackupConfig struct {
	Dir      string `yaml:"dir" toml:"dir"`
	Schedule string `yaml:"schedule" toml:"schedule"`
	Keep     int    `yaml:"keep" toml:"keep"`
}

// ArchiveConfig names the SQL database the document is exported to.
type ArchiveConfig struct {
	Driver   string `yaml:"driver" toml:"driver"` // sqlite or postgres
	Path     string `yaml:"path" toml:"path"`
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	Name     string `yaml:"name" toml:"name"`
	User     string `yaml:"user" toml:"user"`
	Password string `yaml:"password" toml:"password"`
	SSLMode  string `yaml:"sslmode" toml:"sslmode"`
}

type ImportConfig struct {
	// DefaultMuscle is assigned to imported exercises whose name gives no hint.
	DefaultMuscle string `yaml:"default_muscle" toml:"default_muscle"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// DSN returns the archive connection string: sqlite://<path> or a
// PostgreSQL URL.
func (a ArchiveConfig) DSN() string {
	if a.Driver == "postgres" {
		sslmode := a.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			a.User, a.Password, a.Host, a.Port, a.Name, sslmode)
	}
	return "sqlite://" + a.Path
}

// SlogLevel parses the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Data:      DataConfig{AutoSave: true},
		Server:    ServerConfig{Host: "127.0.0.1", Port: 8080},
		Tailscale: TailscaleConfig{Hostname: "gymlog"},
		Stats:     StatsConfig{Window: 5},
		Workout:   WorkoutConfig{DefaultRestSeconds: 60},
		Backup:    BackupConfig{Schedule: "@daily", Keep: 14},
		Archive:   ArchiveConfig{Driver: "sqlite", Path: "gymlog.db"},
		Import:    ImportConfig{DefaultMuscle: "Chest"},
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads config from a YAML or TOML file (chosen by extension) over the
// defaults, then applies environment variable overrides. An empty path skips
// the file. Env vars use the prefix GYMLOG_ and underscore-separated paths:
//
//	GYMLOG_DATA_PATH, GYMLOG_DATA_AUTOSAVE,
//	GYMLOG_SERVER_HOST, GYMLOG_SERVER_PORT, GYMLOG_AUTH_API_KEY,
//	GYMLOG_TAILSCALE_ENABLED, GYMLOG_TAILSCALE_HOSTNAME, GYMLOG_TAILSCALE_STATE_DIR,
//	GYMLOG_STATS_WINDOW, GYMLOG_WORKOUT_DEFAULT_REST_SECONDS,
//	GYMLOG_BACKUP_DIR, GYMLOG_BACKUP_SCHEDULE, GYMLOG_BACKUP_KEEP,
//	GYMLOG_ARCHIVE_DRIVER, GYMLOG_ARCHIVE_PATH,
//	GYMLOG_DB_HOST, GYMLOG_DB_PORT, GYMLOG_DB_NAME,
//	GYMLOG_DB_USER, GYMLOG_DB_PASSWORD, GYMLOG_DB_SSLMODE,
//	GYMLOG_IMPORT_DEFAULT_MUSCLE, GYMLOG_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			err = toml.Unmarshal(data, cfg)
		default:
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("GYMLOG_DATA_PATH", &cfg.Data.Path)
	setBool("GYMLOG_DATA_AUTOSAVE", &cfg.Data.AutoSave)
	setString("GYMLOG_SERVER_HOST", &cfg.Server.Host)
	setInt("GYMLOG_SERVER_PORT", &cfg.Server.Port)
	setString("GYMLOG_AUTH_API_KEY", &cfg.Auth.APIKey)
	setBool("GYMLOG_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled)
	setString("GYMLOG_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	setString("GYMLOG_TAILSCALE_STATE_DIR", &cfg.Tailscale.StateDir)
	setInt("GYMLOG_STATS_WINDOW", &cfg.Stats.Window)
	setInt("GYMLOG_WORKOUT_DEFAULT_REST_SECONDS", &cfg.Workout.DefaultRestSeconds)
	setString("GYMLOG_BACKUP_DIR", &cfg.Backup.Dir)
	setString("GYMLOG_BACKUP_SCHEDULE", &cfg.Backup.Schedule)
	setInt("GYMLOG_BACKUP_KEEP", &cfg.Backup.Keep)
	setString("GYMLOG_ARCHIVE_DRIVER", &cfg.Archive.Driver)
	setString("GYMLOG_ARCHIVE_PATH", &cfg.Archive.Path)
	setString("GYMLOG_DB_HOST", &cfg.Archive.Host)
	setInt("GYMLOG_DB_PORT", &cfg.Archive.Port)
	setString("GYMLOG_DB_NAME", &cfg.Archive.Name)
	setString("GYMLOG_DB_USER", &cfg.Archive.User)
	setString("GYMLOG_DB_PASSWORD", &cfg.Archive.Password)
	setString("GYMLOG_DB_SSLMODE", &cfg.Archive.SSLMode)
	setString("GYMLOG_IMPORT_DEFAULT_MUSCLE", &cfg.Import.DefaultMuscle)
	setString("GYMLOG_LOG_LEVEL", &cfg.Log.Level)
}

func (c *Config) validate() error {
	if !c.Tailscale.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Stats.Window < 1 {
		return fmt.Errorf("stats.window must be at least 1")
	}
	if c.Workout.DefaultRestSeconds < 1 {
		return fmt.Errorf("workout.default_rest_seconds must be positive")
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("backup.keep must not be negative")
	}
	if c.Backup.Dir != "" {
		if _, err := cron.Parse(c.Backup.Schedule); err != nil {
			return fmt.Errorf("backup.schedule: %w", err)
		}
	}
	switch c.Archive.Driver {
	case "sqlite":
		if c.Archive.Path == "" {
			return fmt.Errorf("archive.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Archive.Host == "" {
			return fmt.Errorf("archive.host is required for the postgres driver")
		}
		if c.Archive.Name == "" {
			return fmt.Errorf("archive.name is required for the postgres driver")
		}
		if c.Archive.Port == 0 {
			c.Archive.Port = 5432
		}
	default:
		return fmt.Errorf("archive.driver must be sqlite or postgres, got %q", c.Archive.Driver)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}
