package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Backend   BackendConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// Storage drivers for the durable key-value medium
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type StorageConfig struct {
	Driver      string
	SQLitePath  string
	SeedSamples bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// DefaultJWTSecret signs tokens when JWT_SECRET is unset. It is refused
// in production.
const DefaultJWTSecret = "purefood-dev-secret"

var ErrDefaultJWTSecret = errors.New("JWT_SECRET must be set to a non-default value in production")

type JWTConfig struct {
	Secret       string
	AccessExpiry int // in minutes
}

// Backend modes for the sync facade
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

type BackendConfig struct {
	Mode      string
	RemoteURL string
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("STORAGE_DRIVER", DriverSQLite)
	viper.SetDefault("STORAGE_SQLITE_PATH", "purefood.db")
	viper.SetDefault("STORAGE_SEED_SAMPLES", false)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_SECRET", DefaultJWTSecret)
	viper.SetDefault("JWT_ACCESS_EXPIRY", 60*24)
	viper.SetDefault("BACKEND_MODE", BackendLocal)
	viper.SetDefault("BACKEND_REMOTE_URL", "http://localhost:8080/api")
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(viper.GetString("STORAGE_DRIVER")),
			SQLitePath:  viper.GetString("STORAGE_SQLITE_PATH"),
			SeedSamples: viper.GetBool("STORAGE_SEED_SAMPLES"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: viper.GetInt("JWT_ACCESS_EXPIRY"),
		},
		Backend: BackendConfig{
			Mode:      strings.ToLower(viper.GetString("BACKEND_MODE")),
			RemoteURL: strings.TrimRight(viper.GetString("BACKEND_REMOTE_URL"), "/"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  viper.GetBool("RATE_LIMIT_ENABLED"),
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}

// Validate rejects settings that are unsafe for the configured environment
func (c *Config) Validate() error {
	if c.Server.Env == "production" && (c.JWT.Secret == "" || c.JWT.Secret == DefaultJWTSecret) {
		return ErrDefaultJWTSecret
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
