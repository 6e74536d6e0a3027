// Package batch evaluates many strategy and engine configurations over the
// same series in parallel. Every job gets its own signal generator and
// engine, so jobs share nothing but the read-only samples.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-quant/internal/backtest/engine"
	engine_v1 "github.com/rxtech-lab/argo-quant/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/strategy"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is one strategy evaluated with one engine configuration.
type Job struct {
	Strategy strategy.Strategy
	Config   engine_v1.BacktestEngineV1Config
}

// Result is the outcome of one job. Exactly one of Report and Err is set.
type Result struct {
	// Index is the position of the job in the submitted slice.
	Index int
	// RunID is the engine run ID, or a fresh one when the job failed before the run started.
	RunID    string
	Job      Job
	Report   types.Report
	Err      error
	Duration time.Duration
}

// ResultCallback is called from the worker goroutines as each job finishes.
type ResultCallback func(result Result)

// Runner runs jobs on a bounded number of workers.
type Runner struct {
	maxWorkers int
	log        *logger.Logger
	registry   indicator.IndicatorRegistry
	metrics    *Metrics
	onResult   ResultCallback
}

// Option configures a Runner.
type Option func(r *Runner)

// WithLogger sets the runner logger. The engines log through it too.
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithIndicatorRegistry replaces the built-in indicator registry.
func WithIndicatorRegistry(registry indicator.IndicatorRegistry) Option {
	return func(r *Runner) {
		r.registry = registry
	}
}

// WithResultCallback sets a callback invoked as each job finishes.
// It must be safe for concurrent use.
func WithResultCallback(cb ResultCallback) Option {
	return func(r *Runner) {
		r.onResult = cb
	}
}

// NewRunner creates a runner with at most maxWorkers concurrent jobs.
// The runner collectors are registered with reg when it is not nil.
func NewRunner(maxWorkers int, reg prometheus.Registerer, opts ...Option) (*Runner, error) {
	if maxWorkers <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidInput, "max workers must be positive, got %d", maxWorkers)
	}

	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to register batch metrics", err)
	}

	r := &Runner{
		maxWorkers: maxWorkers,
		log:        logger.NewNopLogger(),
		registry:   indicator.NewDefaultRegistry(),
		metrics:    metrics,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Run evaluates every job over samples and returns the results in job order.
// A failing job is reported in its Result and does not stop the others.
// Once ctx is cancelled no new job is started, the unstarted jobs carry the
// cancellation error and Run returns it.
func (r *Runner) Run(ctx context.Context, samples []types.Sample, jobs []Job) ([]Result, error) {
	if len(jobs) == 0 {
		return nil, errors.New(errors.ErrCodeBacktestNoJobs, "no backtest jobs to run")
	}

	results := make([]Result, len(jobs))
	started := make([]bool, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxWorkers)

	r.log.Info("Starting batch",
		zap.Int("jobs", len(jobs)),
		zap.Int("workers", r.maxWorkers),
		zap.Int("samples", len(samples)),
	)

	for i, job := range jobs {
		i, job := i, job
		if gctx.Err() != nil {
			break
		}

		started[i] = true

		g.Go(func() error {
			result := r.runJob(gctx, i, samples, job)
			results[i] = result

			r.metrics.observe(result)

			if r.onResult != nil {
				r.onResult(result)
			}

			return nil
		})
	}

	// job errors stay in their results, so Wait only blocks
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		cancelled := errors.Wrap(errors.ErrCodeBacktestRunFailed, "batch cancelled", err)

		for i, job := range jobs {
			if !started[i] {
				results[i] = Result{Index: i, RunID: uuid.NewString(), Job: job, Err: cancelled}
			}
		}

		return results, cancelled
	}

	return results, nil
}

func (r *Runner) runJob(ctx context.Context, index int, samples []types.Sample, job Job) Result {
	start := time.Now()
	result := Result{Index: index, Job: job}

	report, err := r.evaluate(ctx, samples, job, &result.RunID)
	if result.RunID == "" {
		result.RunID = uuid.NewString()
	}

	result.Duration = time.Since(start)

	if err != nil {
		r.log.Warn("Backtest job failed",
			zap.Int("job", index),
			zap.String("run_id", result.RunID),
			zap.String("strategy", job.Strategy.Name),
			zap.Error(err),
		)

		result.Err = err

		return result
	}

	r.log.Debug("Backtest job finished",
		zap.Int("job", index),
		zap.String("run_id", result.RunID),
		zap.String("strategy", job.Strategy.Name),
		zap.Duration("duration", result.Duration),
	)

	result.Report = report

	return result
}

func (r *Runner) evaluate(ctx context.Context, samples []types.Sample, job Job, runID *string) (types.Report, error) {
	generator, err := job.Strategy.NewSignalGenerator(r.registry)
	if err != nil {
		return types.Report{}, err
	}

	signals, err := generator.Generate(samples)
	if err != nil {
		return types.Report{}, err
	}

	backtest, err := engine_v1.NewBacktestEngineV1(job.Config, r.log)
	if err != nil {
		return types.Report{}, err
	}

	onStart := engine.OnRunStartCallback(func(id string, _ string, _ int) error {
		*runID = id

		return nil
	})

	report, err := backtest.Run(ctx, samples, signals, engine.LifecycleCallbacks{OnRunStart: &onStart})
	if err != nil {
		return types.Report{}, err
	}

	report.Strategy = job.Strategy.Name

	return report, nil
}
