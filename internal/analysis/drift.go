package analysis

import "math"

// Deviations returns, per sample, the ideal frame period at fps minus the
// decode time. Positive values mean the decoder was ahead of schedule.
func Deviations(samples []int, fps float64) ([]float64, error) {
	if err := validateFPS(fps); err != nil {
		return nil, err
	}

	dev := make([]float64, len(samples))
	for i, s := range samples {
		dev[i] = 1000.0 * (1/fps - float64(s)/1000.0)
	}
	return dev, nil
}

// ComputeDebt folds the deviations at fps into the catch-up debt series.
// The running total never goes above zero: time gained while ahead of
// schedule is discarded, so debt[i] is the lateness still outstanding at
// frame i and drops to 0 the moment the decoder catches up.
func ComputeDebt(samples []int, fps float64) ([]float64, error) {
	dev, err := Deviations(samples, fps)
	if err != nil {
		return nil, err
	}

	debt := make([]float64, len(dev))
	tot := 0.0
	for i, d := range dev {
		tot = accumulate(tot, d)
		debt[i] = math.Abs(tot)
	}
	return debt, nil
}

// accumulate advances the clamped running total by one deviation.
func accumulate(tot, d float64) float64 {
	tot += d
	if tot > 0 {
		return 0
	}
	return tot
}
