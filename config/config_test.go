package config

import (
	"testing"

	"github.com/Dosada05/tennis-ladder/brackets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ladder?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{
		"SERVER_PORT", "BRACKET_SEEDING", "BRACKET_IDEMPOTENCY_GUARD", "SEED_UPDATE_CONCURRENCY",
		"DEFAULT_VENUE", "CORS_ALLOWED_ORIGINS", "GENERATE_RATE_LIMIT_PER_MINUTE", "MIGRATE_ON_START",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, brackets.SeedingSimplified, cfg.BracketSeeding)
	assert.True(t, cfg.BracketIdempotencyGuard)
	assert.Equal(t, 8, cfg.SeedUpdateConcurrency)
	assert.Equal(t, brackets.DefaultVenue, cfg.DefaultVenue)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 30, cfg.GenerateRateLimitPerMinute)
	assert.False(t, cfg.MigrateOnStart)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BRACKET_SEEDING", "Standard")
	t.Setenv("BRACKET_IDEMPOTENCY_GUARD", "false")
	t.Setenv("SEED_UPDATE_CONCURRENCY", "2")
	t.Setenv("DEFAULT_VENUE", "Centre Court")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://ladder.example.com, https://admin.example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, brackets.SeedingStandard, cfg.BracketSeeding)
	assert.False(t, cfg.BracketIdempotencyGuard)
	assert.Equal(t, 2, cfg.SeedUpdateConcurrency)
	assert.Equal(t, "Centre Court", cfg.DefaultVenue)
	assert.Equal(t, []string{"https://ladder.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing database url", "DATABASE_URL", ""},
		{"missing jwt secret", "JWT_SECRET_KEY", ""},
		{"bad port", "SERVER_PORT", "http"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"unknown seeding", "BRACKET_SEEDING", "snake"},
		{"bad guard flag", "BRACKET_IDEMPOTENCY_GUARD", "maybe"},
		{"zero concurrency", "SEED_UPDATE_CONCURRENCY", "0"},
		{"negative rate limit", "GENERATE_RATE_LIMIT_PER_MINUTE", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
