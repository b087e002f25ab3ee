// Package service turns a request for decimals of π into a rendered digit
// string, going through the planner, the result cache and an engine.
package service

//go:generate mockgen -source=pi_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agbru/picalc/internal/cache"
	"github.com/agbru/picalc/internal/chudnovsky"
	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/logging"
	"github.com/agbru/picalc/internal/planner"
)

// ErrMaxDigitsExceeded is returned when a request asks for more decimals
// than the service allows.
var ErrMaxDigitsExceeded = errors.New("maximum digits exceeded")

// progressLogThreshold is the progress step between two debug events of a
// running computation.
const progressLogThreshold = 0.25

// Result is a computed (or cached) value of π.
type Result struct {
	Digits   int
	Workers  int
	Engine   string
	Value    string
	Duration time.Duration
	Cached   bool
}

// Service computes decimals of π.
type Service interface {
	// Compute returns π with digits decimals, using engine and workers
	// workers on a cache miss.
	Compute(ctx context.Context, engine string, digits, workers int) (Result, error)
}

// PiService implements Service on top of a CalculatorFactory and a Cache.
type PiService struct {
	factory   chudnovsky.CalculatorFactory
	opts      chudnovsky.Options
	maxDigits int
	cache     cache.Cache
	logger    logging.Logger
}

var _ Service = (*PiService)(nil)

// NewPiService creates a service. A nil cache disables caching; a nil
// logger discards. cfg.MaxDigits of 0 means no limit.
func NewPiService(factory chudnovsky.CalculatorFactory, cfg config.AppConfig, c cache.Cache, logger logging.Logger) *PiService {
	if c == nil {
		c = cache.NewNoopCache()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &PiService{
		factory:   factory,
		opts:      cfg.ToCalculationOptions(),
		maxDigits: cfg.MaxDigits,
		cache:     c,
		logger:    logger,
	}
}

// Compute validates the request, serves it from the cache when possible and
// otherwise runs the engine and stores the rendered digits. Cache failures
// are logged and never fail the request.
func (s *PiService) Compute(ctx context.Context, engine string, digits, workers int) (Result, error) {
	if s.maxDigits > 0 && digits > s.maxDigits {
		return Result{}, ErrMaxDigitsExceeded
	}
	plan, err := planner.ForDigits(digits)
	if err != nil {
		return Result{}, err
	}
	calc, err := s.factory.Get(engine)
	if err != nil {
		return Result{}, err
	}

	res := Result{Digits: digits, Workers: workers, Engine: engine}
	key := cache.Key(digits)
	start := time.Now()

	cached, err := s.cache.GetValue(ctx, key)
	if err != nil {
		s.logger.Warn("cache lookup failed", logging.String("key", key), logging.Err(err))
	}
	if cached != "" {
		res.Value, res.Cached, res.Duration = cached, true, time.Since(start)
		return res, nil
	}

	pi, err := s.calculate(ctx, calc, plan.Request(workers))
	if err != nil {
		return Result{}, err
	}
	res.Value = planner.Render(pi, digits)
	res.Duration = time.Since(start)

	if err := s.cache.SetValue(ctx, key, res.Value); err != nil {
		s.logger.Warn("cache store failed", logging.String("key", key), logging.Err(err))
	}
	s.logger.Debug("pi computed",
		logging.String("engine", res.Engine),
		logging.Int("digits", digits),
		logging.Int("workers", workers),
		logging.Duration("duration", res.Duration))
	return res, nil
}

// calculate runs calc with the progress gauge and debug logging observers
// when it supports several observers.
func (s *PiService) calculate(ctx context.Context, calc chudnovsky.Calculator, req chudnovsky.Request) (*big.Float, error) {
	oc, ok := calc.(chudnovsky.ObservableCalculator)
	if !ok {
		return calc.Calculate(ctx, nil, 0, req, s.opts)
	}
	subject := chudnovsky.NewProgressSubject()
	subject.Register(chudnovsky.NewMetricsObserver())
	subject.Register(chudnovsky.NewLoggingObserver(log.Logger, progressLogThreshold))
	return oc.CalculateWithObservers(ctx, subject, 0, req, s.opts)
}
