package simulator

import "errors"

var (
	// ErrUnsupportedPlatform is returned where COM automation is unavailable.
	ErrUnsupportedPlatform = errors.New("simulator automation is only available on windows")
	// ErrNotConverged is returned when a run finishes without results.
	ErrNotConverged = errors.New("simulation did not converge")
	// ErrBusy is returned when exclusive access could not be acquired in time.
	ErrBusy = errors.New("simulator is busy")
	// ErrNoValue is returned when a node exists but holds no value.
	ErrNoValue = errors.New("node has no value")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("simulator temporarily unavailable after repeated failures")
)
