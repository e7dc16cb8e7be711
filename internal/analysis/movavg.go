package analysis

import (
	apperrors "github.com/zsiec/vq/internal/errors"
)

// MovingAverage returns the sliding mean of samples over window entries.
// Element i is the mean of samples[i:i+window], so the result has
// len(samples)-window+1 elements. The first value is seeded from a full sum;
// every later value drops the oldest sample and adds the newest.
func MovingAverage(samples []int, window int) ([]float64, error) {
	if window <= 0 {
		return nil, apperrors.NewInvalidParameterError("window", window)
	}
	if len(samples) < window {
		return nil, apperrors.NewInsufficientDataError(len(samples), window)
	}

	frac := float64(window)
	sum := 0
	for _, s := range samples[:window] {
		sum += s
	}

	avg := make([]float64, 0, len(samples)-window+1)
	avg = append(avg, float64(sum)/frac)
	for i := window; i < len(samples); i++ {
		prev := avg[len(avg)-1]
		avg = append(avg, prev-float64(samples[i-window])/frac+float64(samples[i])/frac)
	}
	return avg, nil
}

// SampleRates converts each decode time in ms to the frame rate it implies.
func SampleRates(samples []int) []float64 {
	rates := make([]float64, len(samples))
	for i, s := range samples {
		rates[i] = 1000.0 / float64(s)
	}
	return rates
}

// FrameRates converts durations in ms to frames per second.
func FrameRates(durations []float64) []float64 {
	rates := make([]float64, len(durations))
	for i, d := range durations {
		rates[i] = 1000.0 / d
	}
	return rates
}
