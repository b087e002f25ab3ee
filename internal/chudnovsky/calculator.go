// Package chudnovsky provides implementations for calculating π with the
// Chudnovsky series. The series is evaluated by binary splitting over exact
// integer triples (P, Q, T); the index range is partitioned across worker
// goroutines whose triples are folded strictly in range order before a
// single big-float evaluation.
//
// The package exposes a Calculator interface so that several engines
// (pure Go, fork-join, GMP) can be selected and compared interchangeably.
package chudnovsky

import (
	"context"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picalc_calculations_total",
			Help: "The total number of π calculations processed",
		},
		[]string{"engine", "status"},
	)
	calculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "picalc_calculation_duration_seconds",
			Help:    "The duration of π calculations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"engine"},
	)
)

// Calculator is the public interface of a π engine. It is the abstraction
// the orchestration, service and server layers work with.
type Calculator interface {
	// Calculate computes π for req. Progress updates are sent without
	// blocking to progressChan, which may be nil.
	//
	// Parameters:
	//   - ctx: Carries tracing information. The arithmetic is not
	//     interrupted by cancellation.
	//   - progressChan: The channel for progress updates.
	//   - calcIndex: Identifies this calculator in progress updates.
	//   - req: Series length, worker count and precision.
	//   - opts: Engine tuning.
	//
	// Returns:
	//   - *big.Float: π with req.PrecisionBits of mantissa.
	//   - error: A validation or calculation error.
	Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, req Request, opts Options) (*big.Float, error)

	// Name returns the identifier of the engine: its registry key for
	// engines obtained from a CalculatorFactory.
	Name() string
}

// ObservableCalculator is a Calculator that can report progress to several
// observers at once.
type ObservableCalculator interface {
	Calculator
	CalculateWithObservers(ctx context.Context, subject *ProgressSubject, calcIndex int, req Request, opts Options) (*big.Float, error)
}

// coreCalculator is implemented by the engines. It produces the Triple of
// [0, SeriesLength); evaluation is shared by all engines.
type coreCalculator interface {
	CalculateCore(ctx context.Context, reporter ProgressReporter, req Request, opts Options) (Triple, error)
	Name() string
}

// PiCalculator decorates a coreCalculator with validation, tracing,
// metrics, logging, progress plumbing and the final evaluation step.
type PiCalculator struct {
	name string
	core coreCalculator
}

var _ ObservableCalculator = (*PiCalculator)(nil)

// NewCalculator wraps core under its display name. It panics if core is
// nil.
func NewCalculator(core coreCalculator) Calculator {
	if core == nil {
		panic("chudnovsky: the `coreCalculator` implementation cannot be nil")
	}
	return &PiCalculator{name: core.Name(), core: core}
}

// newNamedCalculator wraps core under the registry key name.
func newNamedCalculator(name string, core coreCalculator) Calculator {
	if core == nil {
		panic("chudnovsky: the `coreCalculator` implementation cannot be nil")
	}
	return &PiCalculator{name: name, core: core}
}

// Name returns the identifier of the engine, used in metrics labels,
// results and API responses.
func (c *PiCalculator) Name() string {
	return c.name
}

// Description returns the human readable name of the wrapped engine.
func (c *PiCalculator) Description() string {
	return c.core.Name()
}

// Calculate implements Calculator by registering a ChannelObserver on a new
// ProgressSubject.
func (c *PiCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, req Request, opts Options) (*big.Float, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	return c.CalculateWithObservers(ctx, subject, calcIndex, req, opts)
}

// CalculateWithObservers runs the engine and notifies every observer of
// subject. A nil subject disables progress reporting.
func (c *PiCalculator) CalculateWithObservers(ctx context.Context, subject *ProgressSubject, calcIndex int, req Request, opts Options) (result *big.Float, err error) {
	engine := c.name
	ctx, span := otel.Tracer("picalc").Start(ctx, "Calculate")
	span.SetAttributes(
		attribute.String("engine", engine),
		attribute.Int("series_length", req.SeriesLength),
		attribute.Int("workers", req.Workers),
		attribute.Int("precision_bits", req.PrecisionBits),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		calculationsTotal.WithLabelValues(engine, status).Inc()
		calculationDuration.WithLabelValues(engine).Observe(duration)

		log.Debug().
			Str("engine", engine).
			Int("series_length", req.SeriesLength).
			Int("workers", req.Workers).
			Int("precision_bits", req.PrecisionBits).
			Float64("duration", duration).
			Str("status", status).
			Msg("calculation completed")
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	var reporter ProgressReporter = func(float64) {}
	if subject != nil {
		reporter = subject.AsProgressReporter(calcIndex)
	}

	opts = normalizeOptions(opts)
	triple, err := c.core.CalculateCore(ctx, reporter, req, opts)
	if err != nil {
		return nil, err
	}
	result = Evaluate(triple, uint(req.PrecisionBits), opts.GuardBits)
	reporter(1.0)
	return result, nil
}
