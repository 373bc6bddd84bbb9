package simulator

import "context"

// Driver is the boundary to a process simulator. A driver is used by one
// goroutine at a time and discarded after Close.
type Driver interface {
	// Load opens the model archive.
	Load(ctx context.Context, modelPath string) error
	// SetValue writes an input node.
	SetValue(ctx context.Context, path string, value float64) error
	// Run solves the model and blocks until the engine is idle.
	Run(ctx context.Context) error
	// Value reads a node. It returns ErrNoValue when the node is empty.
	Value(ctx context.Context, path string) (float64, error)
	Close() error
}

// DriverFactory opens a new driver session.
type DriverFactory func(ctx context.Context) (Driver, error)
