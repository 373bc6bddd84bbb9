package simulator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

type Config struct {
	ModelPath string
	Paths     NodePaths
	// Timeout bounds a single run, from opening the model to reading results.
	Timeout time.Duration
	// AcquireTimeout bounds the wait for exclusive access.
	AcquireTimeout time.Duration
	// MaxFailures consecutive failures open the breaker for ResetTimeout.
	MaxFailures  uint32
	ResetTimeout time.Duration
}

func DefaultConfig(modelPath string) Config {
	return Config{
		ModelPath:      modelPath,
		Paths:          DefaultNodePaths(),
		Timeout:        5 * time.Minute,
		AcquireTimeout: 2 * time.Minute,
		MaxFailures:    3,
		ResetTimeout:   time.Minute,
	}
}

// Session serializes access to the simulator. Each run opens a fresh driver,
// so no state leaks between requests.
type Session struct {
	cfg     Config
	open    DriverFactory
	sem     *semaphore.Weighted
	breaker *gobreaker.CircuitBreaker
	logger  *zap.SugaredLogger
}

func NewSession(cfg Config, open DriverFactory) *Session {
	logger := zap.S().Named("simulator")
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "simulator",
		MaxRequests: 1,
		Timeout:     cfg.ResetTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// Non-convergence and cancellation are not availability failures.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotConverged) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})

	return &Session{
		cfg:     cfg,
		open:    open,
		sem:     semaphore.NewWeighted(1),
		breaker: breaker,
		logger:  logger,
	}
}

// Run simulates p with exclusive access to the simulator. A nil error with
// PowerOutput 0 means the model solved but reported no shaft power.
func (s *Session) Run(ctx context.Context, p Parameters) (*Result, error) {
	start := time.Now()

	acquireCtx := ctx
	if s.cfg.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, s.cfg.AcquireTimeout)
		defer cancel()
	}
	if err := s.sem.Acquire(acquireCtx, 1); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBusy, err)
	}
	defer s.sem.Release(1)

	runCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.simulate(runCtx, p)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	if err != nil {
		return nil, err
	}

	result := out.(*Result)
	result.Duration = time.Since(start)
	s.logger.Infow("simulation finished", "power_kw", result.PowerOutput, "duration", result.Duration)
	return result, nil
}

func (s *Session) simulate(ctx context.Context, p Parameters) (*Result, error) {
	d, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open simulator: %w", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			s.logger.Warnw("failed to close simulator", "error", err)
		}
	}()

	if err := d.Load(ctx, s.cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", s.cfg.ModelPath, err)
	}

	for _, v := range s.cfg.Paths.inputs(p) {
		if err := d.SetValue(ctx, v.path, v.value); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", v, err)
		}
	}
	s.logger.Debugw("inputs written", "model", s.cfg.ModelPath)

	if err := d.Run(ctx); err != nil {
		return nil, fmt.Errorf("simulation run failed: %w", err)
	}

	paths := s.cfg.Paths
	result := &Result{Success: true}

	power, err := d.Value(ctx, paths.BrakePower())
	switch {
	case errors.Is(err, ErrNoValue):
		result.Message = "model solved without reporting shaft power"
	case err != nil:
		return nil, fmt.Errorf("failed to read shaft power: %w", err)
	default:
		// Expanders report brake power as negative work.
		result.PowerOutput = math.Abs(power)
	}

	result.InletPressure = s.optional(ctx, d, paths.InletPressure(), 1/barPerMPa)
	result.OutletPressure = s.optional(ctx, d, paths.OutletPressure(), 1/barPerMPa)
	result.OutletTemperature = s.optional(ctx, d, paths.OutletTemperature(), 1)
	result.PressureRatio = s.optional(ctx, d, paths.PressureRatio(), 1)
	result.Efficiency = s.optional(ctx, d, paths.Efficiency(), 100)

	return result, nil
}

// optional reads a telemetry node scaled by factor, or nil when unavailable.
func (s *Session) optional(ctx context.Context, d Driver, path string, factor float64) *float64 {
	v, err := d.Value(ctx, path)
	if err != nil {
		s.logger.Debugw("telemetry unavailable", "path", path, "error", err)
		return nil
	}
	v *= factor
	return &v
}
