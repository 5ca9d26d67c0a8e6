// Package filesink writes the DDL script to a file. A script whose digest
// matches the file already on disk is not rewritten, so repeated runs leave
// modification times alone.
package filesink

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"

	"schemagen/internal/storage"
)

func init() {
	storage.Register("file", func(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
		return New(cfg.Path)
	})
}

// Sink is a file-backed storage.Sink.
type Sink struct{ path string }

var _ storage.Sink = (*Sink)(nil)

// New returns a sink writing to path.
func New(path string) (*Sink, error) {
	if path == "" {
		return nil, fmt.Errorf("filesink: output.path is required")
	}
	return &Sink{path: path}, nil
}

// Write replaces the file with script unless its content is unchanged. The
// new content is written to a temporary file in the same directory and
// renamed into place.
func (s *Sink) Write(ctx context.Context, script string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if same, err := s.unchanged(script); err != nil {
		return false, err
	} else if same {
		log.Printf("filesink: unchanged path=%s", s.path)
		return false, nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("filesink: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return false, fmt.Errorf("filesink: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		return false, fmt.Errorf("filesink: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("filesink: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return false, fmt.Errorf("filesink: rename to %s: %w", s.path, err)
	}
	log.Printf("filesink: wrote path=%s bytes=%d digest=%016x", s.path, len(script), xxh3.HashString(script))
	return true, nil
}

func (s *Sink) unchanged(script string) (bool, error) {
	old, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("filesink: read %s: %w", s.path, err)
	}
	return len(old) == len(script) && xxh3.Hash(old) == xxh3.HashString(script), nil
}

// Close implements storage.Sink.
func (s *Sink) Close() error { return nil }
