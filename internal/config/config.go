package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/openpress/openpress-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration. Values come from the
// per-environment YAML file; secrets may be overridden by env vars.
type Config struct {
	Environment string           `yaml:"environment"`
	Server      ServerConfig     `yaml:"server"`
	Database    DatabaseConfig   `yaml:"database"`
	Redis       RedisConfig      `yaml:"redis"`
	JWT         JWTConfig        `yaml:"jwt"`
	CORS        CORSConfig       `yaml:"cors"`
	Versioning  VersioningConfig `yaml:"versioning"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig MySQL settings
type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Name            string `yaml:"name"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

// GetDSN builds the MySQL DSN
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// RedisConfig Redis settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Stream   string `yaml:"stream"`
}

// JWTConfig token settings
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"` // seconds
}

// CORSConfig CORS settings
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// VersioningConfig retention and listing defaults
type VersioningConfig struct {
	RetainVersions int `yaml:"retain_versions"`
	ListLimit      int `yaml:"list_limit"`
}

// Load reads the YAML config file and applies env var overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from APP_ENV, not user input
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// applyEnvOverrides lets deployment env vars override file values,
// primarily for secrets that should not live in YAML.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 100
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.Stream == "" {
		cfg.Redis.Stream = "content-events"
	}
	if cfg.JWT.ExpiresIn == 0 {
		cfg.JWT.ExpiresIn = 86400
	}
	if cfg.Versioning.RetainVersions == 0 {
		cfg.Versioning.RetainVersions = 50
	}
	if cfg.Versioning.ListLimit == 0 {
		cfg.Versioning.ListLimit = 50
	}
}

// IsDevelopment reports whether the config targets a dev environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "local" || c.Environment == "development"
}

// LogResolved logs the effective configuration with secrets masked
func (c *Config) LogResolved() {
	logger.GetLogger().Info().
		Str("environment", c.Environment).
		Int("server_port", c.Server.Port).
		Str("db_host", c.Database.Host).
		Str("db_name", c.Database.Name).
		Str("redis_host", c.Redis.Host).
		Bool("jwt_secret_set", c.JWT.Secret != "").
		Int("retain_versions", c.Versioning.RetainVersions).
		Msg("configuration loaded")
}
