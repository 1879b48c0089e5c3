package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunsmm/diary-network/internal/authz"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"JWT_SECRET": "s3cret"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, authz.PolicyRedirect, cfg.OwnershipPolicy)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "local", cfg.Media.Backend)
	assert.EqualValues(t, 5<<20, cfg.Media.MaxUploadBytes)
	assert.Equal(t, 10.0, cfg.RateLimit.RPS)
	assert.Equal(t, 100, cfg.RateLimit.Burst)
	assert.Equal(t,
		"host=localhost user=postgres password= dbname=diary port=5432 sslmode=disable TimeZone=UTC",
		cfg.DB.DSN())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"JWT_SECRET":       "s3cret",
		"PORT":             "9000",
		"DATABASE_URL":     "postgres://u:p@db:5432/diary",
		"JWT_TTL":          "15m",
		"OWNERSHIP_POLICY": "deny",
		"PAGE_SIZE":        "25",
		"CORS_ORIGINS":     "https://a.example, https://b.example ,",
		"MEDIA_BACKEND":    "s3",
		"S3_BUCKET":        "diary-images",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "postgres://u:p@db:5432/diary", cfg.DB.DSN())
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, authz.PolicyDeny, cfg.OwnershipPolicy)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "diary-images", cfg.Media.S3Bucket)
}

func TestFromEnvErrors(t *testing.T) {
	tests := map[string]map[string]string{
		"bad policy":      {"JWT_SECRET": "x", "OWNERSHIP_POLICY": "maybe"},
		"bad page size":   {"JWT_SECRET": "x", "PAGE_SIZE": "0"},
		"bad ttl":         {"JWT_SECRET": "x", "JWT_TTL": "soon"},
		"bad backend":     {"JWT_SECRET": "x", "MEDIA_BACKEND": "ftp"},
		"s3 needs bucket": {"JWT_SECRET": "x", "MEDIA_BACKEND": "s3"},
		"bad rps":         {"JWT_SECRET": "x", "RATE_LIMIT_RPS": "fast"},
	}
	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(values))
			assert.Error(t, err)
		})
	}
}

func TestJWTSecretOnlyRequiredToServe(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{}))
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.RequireJWTSecret(), ErrNoJWTSecret)

	cfg, err = FromEnv(env(map[string]string{"JWT_SECRET": "s3cret"}))
	require.NoError(t, err)
	assert.NoError(t, cfg.RequireJWTSecret())
}
