package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Report   ReportConfig   `mapstructure:"report"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Store    StoreConfig    `mapstructure:"store"`
}

type AnalysisConfig struct {
	TargetFPS       int     `mapstructure:"target_fps"`
	WindowSize      int     `mapstructure:"window_size"`       // Samples in the moving average
	SyncThresholdMs float64 `mapstructure:"sync_threshold_ms"` // Tolerated catch-up debt
	SustainSeconds  float64 `mapstructure:"sustain_seconds"`   // Longest tolerated violation
	SearchHeadroom  int     `mapstructure:"search_headroom"`   // Best-rate search starts at target + headroom
	SearchFloor     int     `mapstructure:"search_floor"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`     // json or text
	Output     string `mapstructure:"output"`     // stdout, stderr, or file path
	MaxSize    int    `mapstructure:"max_size"`   // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

type ReportConfig struct {
	ShowStats     bool    `mapstructure:"show_stats"`
	Graph         bool    `mapstructure:"graph"`
	GraphDir      string  `mapstructure:"graph_dir"`
	GraphWidthIn  float64 `mapstructure:"graph_width_in"`
	GraphHeightIn float64 `mapstructure:"graph_height_in"`
	Color         bool    `mapstructure:"color"`
}

type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile"`
}

type StoreConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	RedisAddr string        `mapstructure:"redis_addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	TTL       time.Duration `mapstructure:"ttl"`
	Prefix    string        `mapstructure:"prefix"`
}

// flagBindings maps command-line flag names to configuration keys.
var flagBindings = map[string]string{
	"stats":        "report.show_stats",
	"graph":        "report.graph",
	"graph-dir":    "report.graph_dir",
	"fps":          "analysis.target_fps",
	"jobs":         "batch.workers",
	"log-level":    "logging.level",
	"metrics-file": "metrics.textfile",
	"redis-addr":   "store.redis_addr",
}

// Load builds the configuration from defaults, an optional YAML file,
// VQ_* environment variables and any flags that were set on the command line.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Environment variable override
	v.SetEnvPrefix("VQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if flags != nil {
		for name, key := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Zero workers means one per CPU.
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = runtime.NumCPU()
	}

	// A metrics file on the command line implies metrics export.
	if cfg.Metrics.Textfile != "" && flags != nil {
		if f := flags.Lookup("metrics-file"); f != nil && f.Changed {
			cfg.Metrics.Enabled = true
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	cfg, err := Load("", nil)
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	// Analysis defaults
	v.SetDefault("analysis.target_fps", 30)
	v.SetDefault("analysis.window_size", 90)
	v.SetDefault("analysis.sync_threshold_ms", 60.0)
	v.SetDefault("analysis.sustain_seconds", 2.0)
	v.SetDefault("analysis.search_headroom", 20)
	v.SetDefault("analysis.search_floor", 2)

	// Logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)

	// Report defaults
	v.SetDefault("report.show_stats", false)
	v.SetDefault("report.graph", false)
	v.SetDefault("report.graph_dir", ".")
	v.SetDefault("report.graph_width_in", 8.0)
	v.SetDefault("report.graph_height_in", 10.0)
	v.SetDefault("report.color", true)

	// Batch defaults
	v.SetDefault("batch.workers", runtime.NumCPU())

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile", "")

	// Store defaults
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.db", 0)
	v.SetDefault("store.ttl", "168h")
	v.SetDefault("store.prefix", "vq:runs:")
}
