package analysis

import (
	"fmt"

	apperrors "github.com/zsiec/vq/internal/errors"
	"github.com/zsiec/vq/internal/logger"
)

// Result is the immutable outcome of analyzing one clip.
type Result struct {
	Name      string
	TargetFPS int

	Samples       []int
	MovingAverage []float64
	SampleFPS     []float64 // 1000/sample, len(Samples)
	MovingFPS     []float64 // 1000/average, len(MovingAverage)

	Debt                  []float64 // debt series at TargetFPS
	Passed                bool      // verdict at TargetFPS
	LongestViolation      int
	LongestViolationStart int
	MaxDebtMs             float64

	Best      SearchResult
	Stats     Statistics
	Histogram []HistogramBin
}

// Analyzer runs the full synchronization analysis for single clips.
// It holds no per-clip state and may be shared between goroutines.
type Analyzer struct {
	params Params
	logger logger.Logger
}

// NewAnalyzer creates an analyzer. A nil logger discards output.
func NewAnalyzer(params Params, log logger.Logger) *Analyzer {
	if log == nil {
		log = logger.Discard()
	}
	return &Analyzer{
		params: params,
		logger: log,
	}
}

// Params returns the analyzer's parameters.
func (a *Analyzer) Params() Params {
	return a.params
}

// Analyze computes the moving average, the debt series and verdict at
// targetFPS, and the best achievable rate for samples. The samples are
// copied; the caller may reuse its slice.
func (a *Analyzer) Analyze(name string, samples []int, targetFPS int) (*Result, error) {
	if len(samples) == 0 {
		return nil, apperrors.NewNoDataError(name)
	}
	if targetFPS <= 0 {
		return nil, apperrors.NewInvalidParameterError("target_fps", targetFPS)
	}

	own := make([]int, len(samples))
	copy(own, samples)

	avg, err := MovingAverage(own, a.params.WindowSize)
	if err != nil {
		return nil, fmt.Errorf("moving average for %s: %w", name, err)
	}

	fps := float64(targetFPS)
	debt, err := ComputeDebt(own, fps)
	if err != nil {
		return nil, err
	}
	passed, err := a.params.Detector().Decide(debt, fps)
	if err != nil {
		return nil, err
	}

	best, err := BestRate(own, targetFPS, a.params)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Name:          name,
		TargetFPS:     targetFPS,
		Samples:       own,
		MovingAverage: avg,
		SampleFPS:     SampleRates(own),
		MovingFPS:     FrameRates(avg),
		Debt:          debt,
		Passed:        passed,
		Best:          best,
		Histogram:     Histogram(own),
	}
	res.LongestViolation, res.LongestViolationStart = LongestViolation(debt, a.params.SyncThresholdMs)
	for _, d := range debt {
		if d > res.MaxDebtMs {
			res.MaxDebtMs = d
		}
	}
	res.Stats = ComputeStatistics(own, res.SampleFPS, res.MovingFPS)

	log := a.logger.WithFields(logger.Fields{
		"clip":              name,
		"frames":            len(own),
		"target_fps":        targetFPS,
		"passed":            passed,
		"best_fps":          best.FPS,
		"longest_violation": res.LongestViolation,
		"max_debt_ms":       res.MaxDebtMs,
	})
	log.Debug("Clip analyzed")
	if !best.Passed {
		log.Warn("Clip is out of sync at every frame rate tried")
	}

	return res, nil
}
