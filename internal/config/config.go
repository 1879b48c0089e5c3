// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tunsmm/diary-network/internal/authz"
	"github.com/tunsmm/diary-network/internal/pagination"
)

type Config struct {
	Port            string
	DB              DB
	JWTSecret       string
	JWTTTL          time.Duration
	CORSOrigins     []string
	OwnershipPolicy authz.Policy
	PageSize        int
	Media           Media
	RateLimit       RateLimit
}

type DB struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	URL      string // DATABASE_URL, wins over the discrete fields
	LogLevel string
}

// DSN returns the PostgreSQL connection string.
func (d DB) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type Media struct {
	Backend        string // "local" or "s3"
	Dir            string
	BaseURL        string
	S3Bucket       string
	S3Region       string
	S3Prefix       string
	MaxUploadBytes int64
}

type RateLimit struct {
	RPS   float64
	Burst int
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// ErrNoJWTSecret is returned by RequireJWTSecret when JWT_SECRET is empty.
var ErrNoJWTSecret = errors.New("JWT_SECRET environment variable is not set")

// RequireJWTSecret fails unless a token signing secret is configured. Only
// the HTTP server signs tokens, so admin commands run without one.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return ErrNoJWTSecret
	}
	return nil
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Port: get("PORT", "8080"),
		DB: DB{
			Host:     get("DB_HOST", "localhost"),
			Port:     get("DB_PORT", "5432"),
			User:     get("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD"),
			Name:     get("DB_NAME", "diary"),
			SSLMode:  get("DB_SSLMODE", "disable"),
			URL:      get("DATABASE_URL", ""),
			LogLevel: get("DB_LOG_LEVEL", "warn"),
		},
		JWTSecret: getenv("JWT_SECRET"),
		Media: Media{
			Backend:  get("MEDIA_BACKEND", "local"),
			Dir:      get("MEDIA_DIR", "./media"),
			BaseURL:  get("MEDIA_BASE_URL", "/media"),
			S3Bucket: get("S3_BUCKET", ""),
			S3Region: get("S3_REGION", "us-east-1"),
			S3Prefix: get("S3_PREFIX", "posts/"),
		},
	}

	var err error
	if cfg.JWTTTL, err = time.ParseDuration(get("JWT_TTL", "72h")); err != nil {
		return nil, fmt.Errorf("JWT_TTL: %w", err)
	}
	if cfg.OwnershipPolicy, err = authz.ParsePolicy(getenv("OWNERSHIP_POLICY")); err != nil {
		return nil, fmt.Errorf("OWNERSHIP_POLICY: %w", err)
	}
	if cfg.PageSize, err = strconv.Atoi(get("PAGE_SIZE", strconv.Itoa(pagination.DefaultPageSize))); err != nil || cfg.PageSize < 1 {
		return nil, fmt.Errorf("PAGE_SIZE must be a positive integer")
	}
	if cfg.Media.MaxUploadBytes, err = strconv.ParseInt(get("MAX_UPLOAD_BYTES", "5242880"), 10, 64); err != nil {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
	}
	if cfg.RateLimit.RPS, err = strconv.ParseFloat(get("RATE_LIMIT_RPS", "10"), 64); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimit.Burst, err = strconv.Atoi(get("RATE_LIMIT_BURST", "100")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}

	switch cfg.Media.Backend {
	case "local":
	case "s3":
		if cfg.Media.S3Bucket == "" {
			return nil, errors.New("S3_BUCKET is required when MEDIA_BACKEND=s3")
		}
	default:
		return nil, fmt.Errorf("unknown MEDIA_BACKEND %q", cfg.Media.Backend)
	}

	for _, origin := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	return cfg, nil
}
