package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/zsiec/vq/internal/analysis"
)

var (
	// ErrRecordNotFound is returned when a run has no record for a file
	ErrRecordNotFound = errors.New("record not found")
)

// Record is the archived summary of one analyzed clip.
type Record struct {
	RunID            string              `json:"run_id"`
	File             string              `json:"file"`
	Clip             string              `json:"clip"`
	Frames           int                 `json:"frames"`
	TargetFPS        int                 `json:"target_fps"`
	Passed           bool                `json:"passed"`
	BestFPS          int                 `json:"best_fps"`
	BestPassed       bool                `json:"best_passed"`
	LongestViolation int                 `json:"longest_violation"`
	MaxDebtMs        float64             `json:"max_debt_ms"`
	Stats            analysis.Statistics `json:"stats"`
	AnalyzedAt       time.Time           `json:"analyzed_at"`
}

// NewRecord summarizes an analysis result for archiving.
func NewRecord(runID, file string, res *analysis.Result) *Record {
	return &Record{
		RunID:            runID,
		File:             file,
		Clip:             res.Name,
		Frames:           len(res.Samples),
		TargetFPS:        res.TargetFPS,
		Passed:           res.Passed,
		BestFPS:          res.Best.FPS,
		BestPassed:       res.Best.Passed,
		LongestViolation: res.LongestViolation,
		MaxDebtMs:        res.MaxDebtMs,
		Stats:            res.Stats,
		AnalyzedAt:       time.Now().UTC(),
	}
}

// Store archives clip records grouped by run. Records are keyed by the
// input path, so clips sharing a basename in different directories do not
// replace each other.
type Store interface {
	// Save writes or replaces the record for rec.RunID and rec.File
	Save(ctx context.Context, rec *Record) error

	// Get retrieves the record of one input file of a run
	Get(ctx context.Context, runID, file string) (*Record, error)

	// List returns every record of a run ordered by file path
	List(ctx context.Context, runID string) ([]*Record, error)

	// Close releases any resources held by the store
	Close() error
}

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]map[string]*Record)}
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[rec.RunID]
	if !ok {
		run = make(map[string]*Record)
		m.runs[rec.RunID] = run
	}
	cp := *rec
	run[rec.File] = &cp
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, runID, file string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.runs[runID][file]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

// List implements Store.
func (m *MemoryStore) List(ctx context.Context, runID string) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := make([]*Record, 0, len(m.runs[runID]))
	for _, rec := range m.runs[runID] {
		cp := *rec
		recs = append(recs, &cp)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].File < recs[j].File })
	return recs, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}
