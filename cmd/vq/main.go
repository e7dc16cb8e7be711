package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/zsiec/vq/internal/analysis"
	"github.com/zsiec/vq/internal/batch"
	"github.com/zsiec/vq/internal/config"
	apperrors "github.com/zsiec/vq/internal/errors"
	"github.com/zsiec/vq/internal/logger"
	"github.com/zsiec/vq/internal/metrics"
	"github.com/zsiec/vq/internal/report"
	"github.com/zsiec/vq/internal/sample"
	"github.com/zsiec/vq/internal/store"
	"github.com/zsiec/vq/pkg/version"
)

const (
	exitOK      = 0
	exitUsage   = 1
	exitNotSync = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func newFlagSet(stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("vq", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.BoolP("stats", "s", false, "print statistics for every file")
	fs.BoolP("graph", "g", false, "save a graph for every file")
	fs.String("graph-dir", ".", "directory for graphs")
	fs.Int("fps", analysis.DefaultTargetFPS, "target display rate")
	fs.IntP("jobs", "j", 0, "files analyzed in parallel (0 = one per CPU)")
	fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	fs.String("metrics-file", "", "write Prometheus metrics to this file")
	fs.String("redis-addr", "", "archive results in Redis at this address")
	fs.String("config", "", "path to a YAML configuration file")
	fs.Bool("version", false, "print version information")

	fs.Usage = func() {
		report.Usage(stderr, analysis.DefaultParams(), fs.FlagUsages())
	}
	return fs
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitUsage
		}
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return exitUsage
	}

	if showVersion, _ := fs.GetBool("version"); showVersion {
		fmt.Fprintln(stdout, version.GetInfo().String())
		return exitOK
	}

	configPath, _ := fs.GetString("config")
	cfg, err := config.Load(configPath, fs)
	if err != nil {
		fmt.Fprintln(stderr, apperrors.WrapValidationError(err, "failed to load config"))
		return exitUsage
	}
	if fs.Changed("redis-addr") {
		cfg.Store.Enabled = true
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return exitUsage
	}

	files, err := sample.ExpandGlobs(fs.Args())
	if err != nil || len(files) == 0 {
		report.Usage(stderr, analysis.ParamsFromConfig(cfg.Analysis), fs.FlagUsages())
		return exitUsage
	}

	log.WithField("version", version.GetInfo().Short()).Debug("Starting analysis")

	var opts []batch.Option

	var rec *metrics.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.NewRecorder()
		opts = append(opts, batch.WithMetrics(rec))
	}

	if cfg.Store.Enabled {
		st, err := store.Open(ctx, cfg.Store, log)
		if err != nil {
			log.WithError(err).Warn("Result archive unavailable, continuing without it")
		} else {
			defer func() {
				if err := st.Close(); err != nil {
					log.WithError(err).Error("Failed to close result archive")
				}
			}()
			opts = append(opts, batch.WithStore(st))
		}
	}

	printer := report.NewPrinter(stdout, cfg.Report.Color)
	runner := batch.NewRunner(cfg, printer, log, opts...)
	log.WithFields(map[string]interface{}{
		"run_id": runner.RunID(),
		"files":  len(files),
	}).Info("Batch started")

	tally, err := runner.Run(ctx, files)
	printer.Summary(tally)
	if err != nil {
		log.WithError(err).Error("Batch interrupted")
	}

	if rec != nil && cfg.Metrics.Textfile != "" {
		if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.WithError(err).Error("Failed to write metrics")
		}
	}

	if err != nil || len(tally.NOK) > 0 || len(tally.Errors) > 0 {
		return exitNotSync
	}
	return exitOK
}
