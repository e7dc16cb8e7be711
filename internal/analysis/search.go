package analysis

import (
	apperrors "github.com/zsiec/vq/internal/errors"
)

// SearchResult is the outcome of a best-rate search.
type SearchResult struct {
	FPS    int  // highest passing rate, or the floor if nothing passed
	Passed bool // verdict at FPS
	Tried  int  // number of candidate rates evaluated
}

// BestRate scans integer rates from targetFPS+SearchHeadroom down to
// SearchFloor and returns the first one whose debt series passes. When no
// rate passes the scan ends at the floor and reports that rate with its
// failing verdict.
func BestRate(samples []int, targetFPS int, p Params) (SearchResult, error) {
	if targetFPS <= 0 {
		return SearchResult{}, apperrors.NewInvalidParameterError("target_fps", targetFPS)
	}
	if p.SearchFloor < 1 {
		return SearchResult{}, apperrors.NewInvalidParameterError("search_floor", p.SearchFloor)
	}
	ceiling := targetFPS + p.SearchHeadroom
	if ceiling < p.SearchFloor {
		return SearchResult{}, apperrors.NewInvalidParameterError("search_headroom", p.SearchHeadroom)
	}

	detector := p.Detector()
	var result SearchResult
	for fps := ceiling; fps >= p.SearchFloor; fps-- {
		debt, err := ComputeDebt(samples, float64(fps))
		if err != nil {
			return SearchResult{}, err
		}
		ok, err := detector.Decide(debt, float64(fps))
		if err != nil {
			return SearchResult{}, err
		}
		result = SearchResult{FPS: fps, Passed: ok, Tried: result.Tried + 1}
		if ok {
			break
		}
	}
	return result, nil
}
