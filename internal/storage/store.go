package storage

import (
	"context"
	"io"
)

// Store keeps generated artifacts (diagrams, reports, workbooks) and returns
// the URL they can be fetched from.
type Store interface {
	Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
}
