// Package stdout writes the DDL script to standard output or to the writer
// given in storage.Config.
package stdout

import (
	"context"
	"io"
	"os"

	"schemagen/internal/storage"
)

func init() {
	storage.Register("stdout", func(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		return &sink{w: w}, nil
	})
}

type sink struct{ w io.Writer }

func (s *sink) Write(ctx context.Context, script string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := io.WriteString(s.w, script); err != nil {
		return false, err
	}
	return true, nil
}

func (s *sink) Close() error { return nil }
