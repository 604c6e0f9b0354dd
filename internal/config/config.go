package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Transport TransportConfig `yaml:"transport"`
	Query     QueryConfig     `yaml:"query"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Mode      string `yaml:"mode"`
	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`
	// DefaultOwner acts for every request while auth is disabled.
	DefaultOwner string `yaml:"default_owner"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type QueryConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
}

const envPrefix = "ARCHITRACK_"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DSN:    "archi-track.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			Mode:         "apikey",
			JWTIssuer:    "archi-track",
			DefaultOwner: "local",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Query: QueryConfig{
			DefaultPageSize: 100,
		},
	}
}

// Load reads configuration from defaults, an optional .env file, an optional
// YAML file and environment variables, in that order.
func Load() (Config, error) {
	// Existing environment variables win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env file: %w", err)
	}

	cfg := Default()

	if path := os.Getenv(envPrefix + "CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
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

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"SERVER_HOST":        &cfg.Server.Host,
		"DB_DRIVER":          &cfg.DB.Driver,
		"DB_DSN":             &cfg.DB.DSN,
		"LOG_LEVEL":          &cfg.Log.Level,
		"LOG_PATH":           &cfg.Log.Path,
		"AUTH_MODE":          &cfg.Auth.Mode,
		"AUTH_DEFAULT_OWNER": &cfg.Auth.DefaultOwner,
		"JWT_SECRET":         &cfg.Auth.JWTSecret,
		"JWT_ISSUER":         &cfg.Auth.JWTIssuer,
		"TRANSPORT_MODE":     &cfg.Transport.Mode,
	}
	for name, dst := range strs {
		if v := os.Getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SERVER_PORT":       &cfg.Server.Port,
		"DEFAULT_PAGE_SIZE": &cfg.Query.DefaultPageSize,
	}
	for name, dst := range ints {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
		}
		*dst = n
	}

	if v := os.Getenv(envPrefix + "AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sAUTH_ENABLED: %w", envPrefix, err)
		}
		cfg.Auth.Enabled = enabled
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if !slices.Contains([]string{"sqlite", "pgx"}, c.DB.Driver) {
		return fmt.Errorf("invalid db driver %q: want sqlite or pgx", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("db dsn is required")
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if !slices.Contains([]string{"http", "stdio"}, c.Transport.Mode) {
		return fmt.Errorf("invalid transport mode %q: want http or stdio", c.Transport.Mode)
	}
	if !slices.Contains([]int{100, 500, 1000}, c.Query.DefaultPageSize) {
		return fmt.Errorf("invalid default page size %d: want 100, 500 or 1000", c.Query.DefaultPageSize)
	}
	if c.Auth.Enabled {
		switch c.Auth.Mode {
		case "apikey":
		case "jwt":
			if c.Auth.JWTSecret == "" {
				return errors.New("jwt secret is required when auth mode is jwt")
			}
		default:
			return fmt.Errorf("invalid auth mode %q: want apikey or jwt", c.Auth.Mode)
		}
	} else if c.Auth.DefaultOwner == "" {
		return errors.New("default owner is required when auth is disabled")
	}
	return nil
}
