package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesEmbeddedDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 27585, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Russian.TeamMax)
	assert.Equal(t, 5, cfg.Russian.Attempts)
	assert.InDelta(t, 0.000680, cfg.Physics.Gravity, 1e-9)
}

func TestLoadEnvOverridesEmbeddedDefaults(t *testing.T) {
	t.Setenv("HQM_PORT", "9999")
	t.Setenv("HQM_RUSSIAN_TEAM_MAX", "4")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Russian.TeamMax)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("HQM_PORT", "9999")

	cfg, err := Load([]string{"--port", "1234", "--name", "flagged"})
	require.NoError(t, err)

	assert.Equal(t, 1234, cfg.Server.Port)
	assert.Equal(t, "flagged", cfg.Server.Name)
}

func TestPhysicsConfigConversionMatchesDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	phys := cfg.Physics.ToPhysicsConfig()
	assert.InDelta(t, 0.25, phys.RinkKPush, 1e-6)
	assert.InDelta(t, 0.125, phys.StickSpringK, 1e-6)
}

func TestRinkConfigConversionBuildsRink(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	r := cfg.Rink.ToRink()
	require.NotNil(t, r)
	assert.Equal(t, float32(30), r.Width)
	assert.Equal(t, float32(61), r.Length)
}
