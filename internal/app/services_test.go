package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finreport/finreport/internal/observability"
)

func TestBuildServicesMinimal(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	svc, err := BuildServices(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	assert.NotNil(t, svc.Companies)
	assert.NotNil(t, svc.Accounting)
	assert.NotNil(t, svc.Reports)
	assert.Nil(t, svc.Cache)
	assert.Nil(t, svc.Gotenberg)
	assert.Equal(t, 10, svc.Companies.PageSize())
}

func TestBuildServicesWithOptionalDependencies(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("GOTENBERG_URL", "http://gotenberg:3000")
	t.Setenv("TEXTGEN_TOKEN", "test-token")
	t.Setenv(testModeEnv, "0")
	RefreshTestMode()
	cfg, err := LoadConfig()
	require.NoError(t, err)

	svc, err := BuildServices(context.Background(), cfg, nil, observability.NewMetrics())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.NotNil(t, svc.Cache)
	require.NoError(t, svc.Cache.Ping(context.Background()))
	assert.NotNil(t, svc.Gotenberg)
}

func TestBuildServicesRequiresConfig(t *testing.T) {
	_, err := BuildServices(context.Background(), nil, nil, nil)
	assert.Error(t, err)
}
