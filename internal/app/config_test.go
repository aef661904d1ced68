package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 10, cfg.SuggestionPageSize)
	assert.Equal(t, 1200, cfg.TextGenMaxNewTokens)
	assert.False(t, cfg.IsProduction())

	params := cfg.EstimateParams()
	assert.Equal(t, 850000.0, params.RevenuePerEmployee)
	assert.Equal(t, 1.2, params.VATRevenueMultiplier)
	assert.Equal(t, 1, params.VATRatingBonus)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("TEXTGEN_TOKEN", "test-token")
	t.Setenv("ESTIMATE_REVENUE_PER_EMPLOYEE", "1000000")
	t.Setenv("UPSTREAM_TIMEOUT", "2s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.EnhancementEnabled())
	assert.Equal(t, 2*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 1_000_000.0, cfg.EstimateParams().RevenuePerEmployee)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("SUGGESTION_PAGE_SIZE", "0")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsPasswordWithoutUser(t *testing.T) {
	t.Setenv("ACCOUNTING_BASIC_PASSWORD", "secret")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigTemperature(t *testing.T) {
	t.Setenv("TEXTGEN_TEMPERATURE", "0")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.TextGenTemperature)

	t.Setenv("TEXTGEN_TEMPERATURE", "-1")
	_, err = LoadConfig()
	assert.Error(t, err)
}
