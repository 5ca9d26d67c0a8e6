// Package file reads entity declarations from the local filesystem: it
// locates a type's source file under a project root, decodes its lines and
// loads many declarations concurrently.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local is a declaration source backed by one file on local disk.
type Local struct{ path string }

// NewLocal returns a Local source bound to path. It is safe for concurrent
// use.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the file path the source reads.
func (l *Local) Path() string { return l.path }

// Open opens the file for reading.
//
// A context that is already done short-circuits before the filesystem is
// touched. Filesystem errors are wrapped with the path and still satisfy
// errors.Is(err, os.ErrNotExist). The file is hinted for sequential access
// where the platform supports it.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	adviseSequential(f)
	return f, nil
}
