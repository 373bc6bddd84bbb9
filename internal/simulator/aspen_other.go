//go:build !windows

package simulator

import "context"

// NewAspenFactory returns a factory that always fails: Aspen Plus is driven
// through COM automation, which only exists on windows.
func NewAspenFactory(progIDs []string, visible bool) DriverFactory {
	return func(ctx context.Context) (Driver, error) {
		return nil, ErrUnsupportedPlatform
	}
}
