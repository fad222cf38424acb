package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/alfred/core/resolver"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `http:
  address: ":9090"
  metrics_path: "/metrics"
  sessions_per_minute: 30
metrics:
  sinks:
    - type: "prometheus"
    - type: "mqtt"
      conf:
        broker: "tcp://localhost:1883"
        topic_prefix: "van"
        retain: true
logging:
  level: "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"address", cfg.HTTP.Address, ":9090"},
		{"metrics_path", cfg.HTTP.MetricsPath, "/metrics"},
		{"sessions_per_minute", cfg.HTTP.SessionsPerMinute, 30},
		{"session_burst", cfg.HTTP.SessionBurst, 30},
		{"shutdown", cfg.HTTP.ShutdownTimeoutSeconds, 5},
		{"sinks", len(cfg.Metrics.Sinks), 2},
		{"sink type", cfg.Metrics.Sinks[1].Type, "mqtt"},
		{"sink broker", cfg.Metrics.Sinks[1].Conf["broker"], "tcp://localhost:1883"},
		{"level", cfg.Logging.Level, "debug"},
		{"format", cfg.Logging.Format, "json"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, "config.json", `{"http":{"address":":9090"}}`)
	t.Setenv("K_HTTP__ADDRESS", ":7000")
	t.Setenv("K_LOGGING__LEVEL", "warn")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTP.Address)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", ""))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "config.yaml", "logging:\n  level: loud\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "config.yaml", "http:\n  metrics_path: metrics\n"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Logging.Validate())
}

func TestLoadScenario(t *testing.T) {
	path := writeFile(t, "van.yaml", `storage:
  batteries: 3
  aux_pack: true
solar:
  panels: 2
  watts_per_panel: 200
  efficiency: medium
alternator:
  preset: 30m
devices:
  - name: fridge
    watts: 50
    hours: 10
  - name: kettle
    watts: 2000
    preset: mealtimes
    disabled: true
`)
	t.Setenv("ALFRED_STORAGE__BATTERIES", "4")
	sel, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, resolver.StorageSelection{Batteries: 4, AuxPack: true}, sel.Storage)
	assert.Equal(t, resolver.EfficiencyMedium, sel.Solar.Efficiency)
	assert.Equal(t, resolver.DriveHalfHour, sel.Alternator.Preset)
	require.Len(t, sel.Devices, 2)
	assert.True(t, sel.Devices[1].Disabled)
	assert.Equal(t, resolver.DevicePresetMealtimes, sel.Devices[1].Preset)
}
