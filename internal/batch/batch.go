// Package batch analyzes a list of decode logs concurrently and reports the
// results in argument order.
package batch

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zsiec/vq/internal/analysis"
	"github.com/zsiec/vq/internal/config"
	apperrors "github.com/zsiec/vq/internal/errors"
	"github.com/zsiec/vq/internal/logger"
	"github.com/zsiec/vq/internal/metrics"
	"github.com/zsiec/vq/internal/report"
	"github.com/zsiec/vq/internal/sample"
	"github.com/zsiec/vq/internal/store"
)

// Runner drives one batch run. Store and metrics are optional.
type Runner struct {
	cfg      *config.Config
	analyzer *analysis.Analyzer
	printer  *report.Printer
	store    store.Store
	metrics  *metrics.Recorder
	handler  *apperrors.ErrorHandler
	logger   *logrus.Entry
	runID    string
}

// Option configures a Runner.
type Option func(*Runner)

// WithStore archives every analyzed clip in s.
func WithStore(s store.Store) Option {
	return func(r *Runner) { r.store = s }
}

// WithMetrics records batch metrics in rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(r *Runner) { r.metrics = rec }
}

// NewRunner creates a runner with a fresh run ID.
func NewRunner(cfg *config.Config, printer *report.Printer, log *logrus.Logger, opts ...Option) *Runner {
	runID := uuid.NewString()
	entry := logger.WithComponent(log, "batch").WithField("run_id", runID)

	r := &Runner{
		cfg:      cfg,
		analyzer: analysis.NewAnalyzer(analysis.ParamsFromConfig(cfg.Analysis), logger.FromEntry(entry)),
		printer:  printer,
		handler:  apperrors.NewErrorHandler(entry),
		logger:   entry,
		runID:    runID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunID identifies this run in logs and in the archive.
func (r *Runner) RunID() string {
	return r.runID
}

type fileOutcome struct {
	path    string
	name    string
	result  *analysis.Result
	elapsed time.Duration
	err     error
}

// Run analyzes files with a bounded number of workers and prints progress
// lines, and statistics when enabled, in the order of files. Per-file
// failures are tallied, not returned; only cancellation of ctx is.
func (r *Runner) Run(ctx context.Context, files []string) (report.Tally, error) {
	var tally report.Tally

	outcomes := make([]fileOutcome, len(files))
	done := make([]chan struct{}, len(files))
	for i := range done {
		done[i] = make(chan struct{})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Batch.Workers)

	waitErr := make(chan error, 1)
	go func() {
		for i, path := range files {
			g.Go(func() error {
				defer close(done[i])
				if err := gctx.Err(); err != nil {
					outcomes[i] = fileOutcome{path: path, name: sample.Basename(path), err: err}
					return err
				}
				outcomes[i] = r.process(gctx, path)
				return nil
			})
		}
		waitErr <- g.Wait()
	}()

	for i := range files {
		<-done[i]
		r.report(&tally, outcomes[i])
	}

	if err := <-waitErr; err != nil {
		return tally, err
	}

	if r.metrics != nil {
		r.metrics.MarkFinished(float64(time.Now().Unix()))
	}
	return tally, nil
}

func (r *Runner) process(ctx context.Context, path string) fileOutcome {
	out := fileOutcome{path: path, name: sample.Basename(path)}
	log := logger.WithFile(r.logger, path)
	start := time.Now()

	parsed, err := sample.ReadFile(path)
	if err != nil {
		out.err = err
		return out
	}
	if parsed.Rejected > 0 {
		log.WithField("rejected", parsed.Rejected).Warn("Ignored malformed FrameTime lines")
	}

	res, err := r.analyzer.Analyze(out.name, parsed.Samples, r.cfg.Analysis.TargetFPS)
	if err != nil {
		out.err = err
		return out
	}
	out.result = res
	out.elapsed = time.Since(start)

	if r.metrics != nil {
		r.metrics.ObserveDuration(out.elapsed.Seconds())
		r.metrics.RecordClip(out.name, len(res.Samples), res.Passed, res.Best.FPS, res.MaxDebtMs, res.LongestViolation)
	}

	if r.store != nil {
		if err := r.store.Save(ctx, store.NewRecord(r.runID, path, res)); err != nil {
			log.WithError(err).Warn("Failed to archive result")
		}
	}

	if r.cfg.Report.Graph {
		graphPath := filepath.Join(r.cfg.Report.GraphDir, out.name+".png")
		err := report.Graph(res, r.analyzer.Params(), graphPath, r.cfg.Report.GraphWidthIn, r.cfg.Report.GraphHeightIn)
		if err != nil {
			log.WithError(err).Warn("Failed to write graph")
		} else {
			log.WithField("graph", graphPath).Debug("Graph written")
		}
	}

	return out
}

func (r *Runner) report(tally *report.Tally, out fileOutcome) {
	if out.err != nil {
		if errors.Is(out.err, context.Canceled) || errors.Is(out.err, context.DeadlineExceeded) {
			return
		}
		r.printer.ProgressError(out.name, out.err)
		switch r.handler.HandleError(out.path, out.err) {
		case apperrors.OutcomeSkipped:
			tally.Skipped = append(tally.Skipped, out.name)
			r.incrementOutcome(metrics.OutcomeSkipped)
		default:
			tally.Errors = append(tally.Errors, out.name)
			r.incrementOutcome(metrics.OutcomeError)
		}
		return
	}

	r.printer.Progress(out.name, out.elapsed, out.result)
	if r.cfg.Report.ShowStats {
		r.printer.Statistics(out.path, out.result)
	}

	if out.result.Passed {
		tally.OK = append(tally.OK, out.name)
		r.incrementOutcome(metrics.OutcomeOK)
	} else {
		tally.NOK = append(tally.NOK, out.name)
		r.incrementOutcome(metrics.OutcomeNOK)
	}
}

func (r *Runner) incrementOutcome(outcome string) {
	if r.metrics != nil {
		r.metrics.IncrementOutcome(outcome)
	}
}
