package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poolsim.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("overrides defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
[simulation]
tick_rate = "50ms"
workers = 8

[metrics]
enabled = true

[logging]
format = "json"
`))
		require.NoError(t, err)
		assert.Equal(t, 50*time.Millisecond, cfg.Simulation.TickRate)
		assert.Equal(t, 8, cfg.Simulation.Workers)
		assert.Equal(t, 2, cfg.Simulation.AcquirePerTick, "untouched keys keep defaults")
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, "127.0.0.1:9107", cfg.Metrics.BindAddress)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, "data/yaml/pool_list.yaml", cfg.Pools.Profiles)
		assert.NotZero(t, cfg.Server.StartTime)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.ErrorContains(t, err, "read config")
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[simulation\n"))
		require.ErrorContains(t, err, "parse config")
	})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero tick rate", "[simulation]\ntick_rate = \"0s\"\n", "tick_rate"},
		{"negative workers", "[simulation]\nworkers = -1\n", "workers"},
		{"negative acquire", "[simulation]\nacquire_per_tick = -1\n", "acquire_per_tick"},
		{"zero hold ticks", "[simulation]\nhold_ticks = 0\n", "hold_ticks"},
		{"zero pool size", "[pools]\ninitial_size = 0\n", "pools.initial_size"},
		{"zero pool increment", "[pools]\nresize_increment = 0\n", "pools.resize_increment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := defaults()
	require.NoError(t, cfg.validate())
	assert.Equal(t, 200*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, PoolsConfig{
		Profiles:        "data/yaml/pool_list.yaml",
		InitialSize:     10,
		Resizable:       true,
		ResizeIncrement: 10,
	}, cfg.Pools)

	cfg.Pools.Resizable = false
	cfg.Pools.ResizeIncrement = 0
	require.NoError(t, cfg.validate(), "fixed-size pools need no increment")
}
