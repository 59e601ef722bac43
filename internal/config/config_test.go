package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/painel")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DELIVERY_HISTORY_MODE", "both")

	cfg := Load()
	require.Equal(t, "postgres://localhost/painel", cfg.DatabaseURL)
	assert.True(t, cfg.HistoryAtPlacement())
	assert.True(t, cfg.HistoryAtCompletion())
}

func TestLoadForJobsWithoutJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/painel")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DELIVERY_HISTORY_MODE", "placement")

	cfg := LoadForJobs()
	require.Equal(t, "postgres://localhost/painel", cfg.DatabaseURL)
	assert.Empty(t, cfg.JWTSecret)
	assert.True(t, cfg.HistoryAtPlacement())
	assert.False(t, cfg.HistoryAtCompletion())
}

func TestHistoryModes(t *testing.T) {
	t.Parallel()

	var c ServiceConfig
	c.DeliveryHistoryMode = HistoryOnCompletion
	assert.False(t, c.HistoryAtPlacement())
	assert.True(t, c.HistoryAtCompletion())

	c.DeliveryHistoryMode = HistoryOnPlacement
	assert.True(t, c.HistoryAtPlacement())
	assert.False(t, c.HistoryAtCompletion())
}
