package config

import (
	"fmt"
)

func (c *Config) Validate() error {
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Report.Validate(); err != nil {
		return fmt.Errorf("report config: %w", err)
	}

	if err := c.Batch.Validate(); err != nil {
		return fmt.Errorf("batch config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store config: %w", err)
	}

	return nil
}

func (a *AnalysisConfig) Validate() error {
	if a.TargetFPS <= 0 {
		return fmt.Errorf("target_fps must be positive, got %d", a.TargetFPS)
	}

	if a.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive, got %d", a.WindowSize)
	}

	if a.SyncThresholdMs < 0 {
		return fmt.Errorf("sync_threshold_ms cannot be negative")
	}

	if a.SustainSeconds <= 0 {
		return fmt.Errorf("sustain_seconds must be positive")
	}

	if a.SearchHeadroom < 0 {
		return fmt.Errorf("search_headroom cannot be negative")
	}

	if a.SearchFloor < 1 {
		return fmt.Errorf("search_floor must be at least 1, got %d", a.SearchFloor)
	}

	if a.SearchFloor > a.TargetFPS+a.SearchHeadroom {
		return fmt.Errorf("search_floor (%d) exceeds search ceiling (%d)",
			a.SearchFloor, a.TargetFPS+a.SearchHeadroom)
	}

	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"panic": true,
		"fatal": true,
		"error": true,
		"warn":  true,
		"info":  true,
		"debug": true,
		"trace": true,
	}

	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	if l.Format != "json" && l.Format != "text" {
		return fmt.Errorf("log format must be 'json' or 'text'")
	}

	if l.Output == "" {
		return fmt.Errorf("log output cannot be empty")
	}

	if l.Output != "stdout" && l.Output != "stderr" {
		if l.MaxSize <= 0 {
			return fmt.Errorf("max_size must be positive for file output")
		}
		if l.MaxBackups < 0 {
			return fmt.Errorf("max_backups cannot be negative")
		}
		if l.MaxAge < 0 {
			return fmt.Errorf("max_age cannot be negative")
		}
	}

	return nil
}

func (r *ReportConfig) Validate() error {
	if r.Graph {
		if r.GraphDir == "" {
			return fmt.Errorf("graph_dir cannot be empty when graphs are enabled")
		}
		if r.GraphWidthIn <= 0 || r.GraphHeightIn <= 0 {
			return fmt.Errorf("graph dimensions must be positive")
		}
	}

	return nil
}

func (b *BatchConfig) Validate() error {
	if b.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", b.Workers)
	}

	return nil
}

func (m *MetricsConfig) Validate() error {
	if m.Enabled && m.Textfile == "" {
		return fmt.Errorf("metrics textfile path is required when metrics are enabled")
	}

	return nil
}

func (s *StoreConfig) Validate() error {
	if !s.Enabled {
		return nil
	}

	if s.RedisAddr == "" {
		return fmt.Errorf("redis_addr is required when the store is enabled")
	}

	if s.DB < 0 {
		return fmt.Errorf("invalid Redis database number: %d", s.DB)
	}

	if s.TTL < 0 {
		return fmt.Errorf("ttl cannot be negative")
	}

	if s.Prefix == "" {
		return fmt.Errorf("prefix cannot be empty")
	}

	return nil
}
