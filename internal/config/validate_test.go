package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validAnalysis() AnalysisConfig {
	return AnalysisConfig{
		TargetFPS:       30,
		WindowSize:      90,
		SyncThresholdMs: 60,
		SustainSeconds:  2,
		SearchHeadroom:  20,
		SearchFloor:     2,
	}
}

func TestAnalysisConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *AnalysisConfig)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(a *AnalysisConfig) {},
		},
		{
			name:    "zero target fps",
			mutate:  func(a *AnalysisConfig) { a.TargetFPS = 0 },
			wantErr: true,
			errMsg:  "target_fps must be positive",
		},
		{
			name:    "zero window",
			mutate:  func(a *AnalysisConfig) { a.WindowSize = 0 },
			wantErr: true,
			errMsg:  "window_size must be positive",
		},
		{
			name:    "negative threshold",
			mutate:  func(a *AnalysisConfig) { a.SyncThresholdMs = -1 },
			wantErr: true,
			errMsg:  "sync_threshold_ms cannot be negative",
		},
		{
			name:    "zero sustain",
			mutate:  func(a *AnalysisConfig) { a.SustainSeconds = 0 },
			wantErr: true,
			errMsg:  "sustain_seconds must be positive",
		},
		{
			name:    "floor below one",
			mutate:  func(a *AnalysisConfig) { a.SearchFloor = 0 },
			wantErr: true,
			errMsg:  "search_floor must be at least 1",
		},
		{
			name: "floor above ceiling",
			mutate: func(a *AnalysisConfig) {
				a.TargetFPS = 10
				a.SearchHeadroom = 0
				a.SearchFloor = 11
			},
			wantErr: true,
			errMsg:  "exceeds search ceiling",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAnalysis()
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoggingConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  LoggingConfig
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid stderr",
			config: LoggingConfig{Level: "warn", Format: "text", Output: "stderr"},
		},
		{
			name:    "invalid level",
			config:  LoggingConfig{Level: "loud", Format: "text", Output: "stderr"},
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name:    "invalid format",
			config:  LoggingConfig{Level: "info", Format: "xml", Output: "stderr"},
			wantErr: true,
			errMsg:  "log format must be",
		},
		{
			name:    "file output without size",
			config:  LoggingConfig{Level: "info", Format: "json", Output: "/var/log/vq.log"},
			wantErr: true,
			errMsg:  "max_size must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReportBatchMetricsStoreValidate(t *testing.T) {
	assert.Error(t, (&ReportConfig{Graph: true}).Validate())
	assert.NoError(t, (&ReportConfig{Graph: true, GraphDir: ".", GraphWidthIn: 8, GraphHeightIn: 10}).Validate())

	assert.Error(t, (&BatchConfig{Workers: 0}).Validate())
	assert.NoError(t, (&BatchConfig{Workers: 4}).Validate())

	assert.Error(t, (&MetricsConfig{Enabled: true}).Validate())
	assert.NoError(t, (&MetricsConfig{Enabled: true, Textfile: "vq.prom"}).Validate())

	assert.NoError(t, (&StoreConfig{}).Validate())
	assert.Error(t, (&StoreConfig{Enabled: true, Prefix: "vq:"}).Validate())
	assert.Error(t, (&StoreConfig{Enabled: true, RedisAddr: "x:1", DB: -1, Prefix: "vq:"}).Validate())
	assert.NoError(t, (&StoreConfig{Enabled: true, RedisAddr: "x:1", Prefix: "vq:"}).Validate())
}
