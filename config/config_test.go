package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessDefaults(t *testing.T) {
	t.Setenv("STORAGE", "memory")

	cfg, err := Process()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, ":8080", cfg.HTTPPort)
	assert.Equal(t, ":50051", cfg.GrpcPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "pizzahunt_session", cfg.SessionCookie)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.Migrate)
}

func TestProcessRequiresDatabaseURLForPostgres(t *testing.T) {
	t.Setenv("STORAGE", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Process()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestProcessRejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE", "Redis")

	_, err := Process()
	assert.ErrorContains(t, err, `unknown STORAGE "redis"`)
}

func TestProcessReadsOverrides(t *testing.T) {
	t.Setenv("STORAGE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/pizzahunt?sslmode=disable")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := Process()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}
