package analysis

import (
	"math"

	apperrors "github.com/zsiec/vq/internal/errors"
	"github.com/zsiec/vq/internal/config"
)

// Defaults for a display running at 30 Hz.
const (
	DefaultTargetFPS       = 30
	DefaultWindowSize      = 90
	DefaultSyncThresholdMs = 60.0
	DefaultSustainSeconds  = 2.0
	DefaultSearchHeadroom  = 20
	DefaultSearchFloor     = 2
)

// Params holds the tunables shared by every analysis stage.
type Params struct {
	WindowSize      int     // samples per moving-average window
	SyncThresholdMs float64 // debt above this counts as a violation
	SustainSeconds  float64 // longest tolerated violation, in seconds of frames
	SearchHeadroom  int     // best-rate search starts this far above the target
	SearchFloor     int     // lowest rate the search tries
}

// DefaultParams returns the standard analysis parameters.
func DefaultParams() Params {
	return Params{
		WindowSize:      DefaultWindowSize,
		SyncThresholdMs: DefaultSyncThresholdMs,
		SustainSeconds:  DefaultSustainSeconds,
		SearchHeadroom:  DefaultSearchHeadroom,
		SearchFloor:     DefaultSearchFloor,
	}
}

// ParamsFromConfig converts the analysis section of the configuration.
func ParamsFromConfig(cfg config.AnalysisConfig) Params {
	return Params{
		WindowSize:      cfg.WindowSize,
		SyncThresholdMs: cfg.SyncThresholdMs,
		SustainSeconds:  cfg.SustainSeconds,
		SearchHeadroom:  cfg.SearchHeadroom,
		SearchFloor:     cfg.SearchFloor,
	}
}

// Detector returns the violation detector configured by p.
func (p Params) Detector() Detector {
	return Detector{
		ThresholdMs:    p.SyncThresholdMs,
		SustainSeconds: p.SustainSeconds,
	}
}

func validateFPS(fps float64) error {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return apperrors.NewInvalidParameterError("fps", fps)
	}
	return nil
}
