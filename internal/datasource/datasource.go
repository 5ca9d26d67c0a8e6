// Package datasource defines where declaration text comes from.
package datasource

import (
	"context"
	"io"
)

// Source opens one declaration source for reading. Implementations return
// an error wrapping os.ErrNotExist when the source does not exist.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
