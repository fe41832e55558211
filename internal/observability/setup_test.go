package observability

import (
	"testing"

	"translategw/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupObservability_AllDisabled(t *testing.T) {
	cfg := &config.OpenTelemetryConfig{ServiceName: "translation-gateway"}

	tp, mp, logger, err := SetupObservability(cfg, "")
	require.NoError(t, err)
	assert.Nil(t, tp)
	assert.Nil(t, mp)
	require.NotNil(t, logger)
}

func TestSetupObservability_ServiceNameFromConfigSurvives(t *testing.T) {
	cfg := &config.OpenTelemetryConfig{ServiceName: "gateway-staging"}

	_, _, _, err := SetupObservability(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "gateway-staging", cfg.ServiceName)
}

func TestSetupObservability_ExplicitNameOverridesConfig(t *testing.T) {
	cfg := &config.OpenTelemetryConfig{ServiceName: "gateway-staging"}

	_, _, _, err := SetupObservability(cfg, "gateway-cli")
	require.NoError(t, err)
	assert.Equal(t, "gateway-cli", cfg.ServiceName)
}
