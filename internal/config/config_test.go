package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "linear", cfg.Exchange.Category)
	assert.True(t, cfg.Exchange.Demo)
	assert.True(t, cfg.DryRun)
	assert.NotNil(t, cfg.Trailing)
	assert.NoError(t, cfg.Trailing.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trail.json")
	content := `{
		"trailing": {
			"atr_period": 21,
			"base_multiplier": 2.5,
			"strategy": "fixed_points"
		},
		"exchange": {"category": "inverse", "demo": false},
		"comment_tag": "trail-me",
		"dry_run": false,
		"reporting": {"journal_file": "out.csv"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 21, cfg.Trailing.ATRPeriod)
	assert.Equal(t, 2.5, cfg.Trailing.BaseMultiplier)
	assert.Equal(t, "fixed_points", cfg.Trailing.Strategy)
	assert.Equal(t, "inverse", cfg.Exchange.Category)
	assert.False(t, cfg.Exchange.Demo)
	assert.Equal(t, "trail-me", cfg.CommentTag)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, "out.csv", cfg.Reporting.JournalFile)

	// Untouched fields keep their defaults
	assert.Equal(t, 20, cfg.Trailing.VolumeLookback)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BYBIT_API_KEY", "env-key")
	t.Setenv("BYBIT_API_SECRET", "env-secret")
	t.Setenv("TRAIL_COMMENT_TAG", "env-tag")
	t.Setenv("TRAIL_METRICS_PORT", "9102")
	t.Setenv("TRAIL_CHECK_INTERVAL", "15s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Exchange.APIKey)
	assert.Equal(t, "env-secret", cfg.Exchange.APISecret)
	assert.Equal(t, "env-tag", cfg.CommentTag)
	assert.Equal(t, 9102, cfg.Monitoring.MetricsPort)
	assert.Equal(t, 15*time.Second, cfg.Trailing.CheckInterval)
}

func TestValidate_RequiresCredentialsOutsideDryRun(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.DryRun = false
	cfg.Exchange.APIKey = ""
	cfg.Exchange.APISecret = ""
	assert.Error(t, cfg.Validate())

	cfg.Exchange.APIKey = "k"
	cfg.Exchange.APISecret = "s"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_DryRunNeedsNoCredentials(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.DryRun = true
	cfg.Exchange.APIKey = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MetricsPortRange(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Monitoring.MetricsPort = 70000
	assert.Error(t, cfg.Validate())

	cfg.Monitoring.MetricsPort = 9100
	assert.NoError(t, cfg.Validate())
}
