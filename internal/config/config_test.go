package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.BoolP("stats", "s", false, "")
	fs.BoolP("graph", "g", false, "")
	fs.Int("fps", 30, "")
	fs.IntP("jobs", "j", 1, "")
	fs.String("metrics-file", "", "")
	return fs
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 30, cfg.Analysis.TargetFPS)
	assert.Equal(t, 90, cfg.Analysis.WindowSize)
	assert.Equal(t, 60.0, cfg.Analysis.SyncThresholdMs)
	assert.Equal(t, 2.0, cfg.Analysis.SustainSeconds)
	assert.Equal(t, 20, cfg.Analysis.SearchHeadroom)
	assert.Equal(t, 2, cfg.Analysis.SearchFloor)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.False(t, cfg.Report.ShowStats)
	assert.False(t, cfg.Report.Graph)
	assert.GreaterOrEqual(t, cfg.Batch.Workers, 1)
	assert.False(t, cfg.Store.Enabled)
	assert.Equal(t, 168*time.Hour, cfg.Store.TTL)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vq.yaml")
	configContent := `
analysis:
  target_fps: 25
  sync_threshold_ms: 40

logging:
  level: "debug"
  format: "json"

store:
  enabled: true
  redis_addr: "cache:6379"
  ttl: 1h
`
	require.NoError(t, os.WriteFile(path, []byte(configContent), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Analysis.TargetFPS)
	assert.Equal(t, 40.0, cfg.Analysis.SyncThresholdMs)
	assert.Equal(t, 90, cfg.Analysis.WindowSize) // default retained
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Store.Enabled)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.Equal(t, time.Hour, cfg.Store.TTL)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis:\n  target_fps: 0\n"), 0o644))

	cfg, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target_fps must be positive")
	assert.Nil(t, cfg)
}

func TestLoadConfig_Flags(t *testing.T) {
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"-s", "-g", "--fps", "50", "-j", "3", "--metrics-file", "/tmp/vq.prom"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.True(t, cfg.Report.ShowStats)
	assert.True(t, cfg.Report.Graph)
	assert.Equal(t, 50, cfg.Analysis.TargetFPS)
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/tmp/vq.prom", cfg.Metrics.Textfile)
}

func TestLoadConfig_ZeroWorkersMeansOnePerCPU(t *testing.T) {
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"-j", "0"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), cfg.Batch.Workers)

	t.Setenv("VQ_BATCH_WORKERS", "0")
	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), cfg.Batch.Workers)
}

func TestLoadConfig_NegativeWorkers(t *testing.T) {
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--jobs=-2"}))

	_, err := Load("", fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be at least 1")
}

func TestLoadConfig_UnsetFlagsKeepDefaults(t *testing.T) {
	fs := newFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load("", fs)
	require.NoError(t, err)

	assert.False(t, cfg.Report.ShowStats)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 30, cfg.Analysis.TargetFPS)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("VQ_ANALYSIS_TARGET_FPS", "24")
	t.Setenv("VQ_LOGGING_LEVEL", "error")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 24, cfg.Analysis.TargetFPS)
	assert.Equal(t, "error", cfg.Logging.Level)
}
