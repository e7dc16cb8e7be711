package analysis

import (
	"sort"

	"github.com/influxdata/tdigest"
	"gonum.org/v1/gonum/stat"
)

// Statistics summarizes the raw decode times of one clip.
type Statistics struct {
	Count           int     `json:"count"`
	TotalMs         int     `json:"total_ms"`
	AverageMs       float64 `json:"average_ms"`
	AverageFPS      float64 `json:"average_fps"`
	MinMs           int     `json:"min_ms"`
	MinIndex        int     `json:"min_index"`
	MaxMs           int     `json:"max_ms"`
	MaxIndex        int     `json:"max_index"`
	StdDevFPS       float64 `json:"std_dev_fps"`
	StdDevMovingFPS float64 `json:"std_dev_moving_fps"`
	P50Ms           float64 `json:"p50_ms"`
	P90Ms           float64 `json:"p90_ms"`
	P99Ms           float64 `json:"p99_ms"`
}

// HistogramBin is one distinct decode time and how often it occurred.
type HistogramBin struct {
	Count int `json:"count"`
	Value int `json:"value"`
}

// ComputeStatistics derives the summary block for a clip. sampleFPS and
// movingFPS are the per-frame and smoothed rate series; standard deviations
// are population values. Min and max indexes refer to first occurrences.
func ComputeStatistics(samples []int, sampleFPS, movingFPS []float64) Statistics {
	var st Statistics
	if len(samples) == 0 {
		return st
	}

	st.Count = len(samples)
	st.MinMs, st.MaxMs = samples[0], samples[0]
	td := tdigest.NewWithCompression(1000)
	for i, s := range samples {
		st.TotalMs += s
		if s < st.MinMs {
			st.MinMs, st.MinIndex = s, i
		}
		if s > st.MaxMs {
			st.MaxMs, st.MaxIndex = s, i
		}
		td.Add(float64(s), 1)
	}
	st.AverageMs = float64(st.TotalMs) / float64(st.Count)
	st.P50Ms = td.Quantile(0.50)
	st.P90Ms = td.Quantile(0.90)
	st.P99Ms = td.Quantile(0.99)

	if len(sampleFPS) > 0 {
		st.AverageFPS = stat.Mean(sampleFPS, nil)
		st.StdDevFPS = stat.PopStdDev(sampleFPS, nil)
	}
	if len(movingFPS) > 0 {
		st.StdDevMovingFPS = stat.PopStdDev(movingFPS, nil)
	}
	return st
}

// Histogram tallies each distinct decode time, most frequent first; ties are
// ordered by larger value first.
func Histogram(samples []int) []HistogramBin {
	counts := make(map[int]int)
	for _, s := range samples {
		counts[s]++
	}

	bins := make([]HistogramBin, 0, len(counts))
	for v, c := range counts {
		bins = append(bins, HistogramBin{Count: c, Value: v})
	}
	sort.Slice(bins, func(i, j int) bool {
		if bins[i].Count != bins[j].Count {
			return bins[i].Count > bins[j].Count
		}
		return bins[i].Value > bins[j].Value
	})
	return bins
}
