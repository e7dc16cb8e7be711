package analysis

// Detector decides whether a debt series stays in sync.
type Detector struct {
	ThresholdMs    float64
	SustainSeconds float64
}

// DefaultDetector uses the 60 ms threshold and a 2 second window.
func DefaultDetector() Detector {
	return Detector{
		ThresholdMs:    DefaultSyncThresholdMs,
		SustainSeconds: DefaultSustainSeconds,
	}
}

// Window is the longest run of violating frames tolerated at fps.
func (d Detector) Window(fps float64) float64 {
	return d.SustainSeconds * fps
}

// Decide reports true unless some run of consecutive frames with debt above
// the threshold is longer than Window(fps). A run of exactly Window(fps)
// frames still passes. The scan stops at the first run that is too long.
func (d Detector) Decide(debt []float64, fps float64) (bool, error) {
	if err := validateFPS(fps); err != nil {
		return false, err
	}

	window := d.Window(fps)
	cnt, cntmax := 0, 0
	for _, v := range debt {
		if v <= d.ThresholdMs {
			cnt = 0
			continue
		}
		cnt++
		if cnt > cntmax {
			cntmax = cnt
		}
		if float64(cntmax) > window {
			return false, nil
		}
	}
	return true, nil
}

// Decide applies the default detector.
func Decide(debt []float64, fps float64) (bool, error) {
	return DefaultDetector().Decide(debt, fps)
}

// LongestViolation returns the longest run of entries above thresholdMs and
// the index where it starts, or (0, -1) if there is none.
func LongestViolation(debt []float64, thresholdMs float64) (length, start int) {
	start = -1
	cnt := 0
	for i, v := range debt {
		if v <= thresholdMs {
			cnt = 0
			continue
		}
		cnt++
		if cnt > length {
			length = cnt
			start = i - cnt + 1
		}
	}
	return length, start
}
