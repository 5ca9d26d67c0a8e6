// Package storage holds the output side of the generator: a Sink receives
// the rendered DDL script. Concrete sinks register a factory for their kind
// at init time; import storage/all to enable every built-in kind.
package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Config selects and configures a sink.
type Config struct {
	// Kind is the registered sink kind ("file", "stdout").
	Kind string
	// Path is the destination file for file-backed sinks.
	Path string
	// Writer overrides the destination of stream sinks; nil means stdout.
	Writer io.Writer
}

// Sink receives the complete DDL script of one run.
type Sink interface {
	// Write stores script. written is false when the sink decided nothing
	// needed to change.
	Write(ctx context.Context, script string) (written bool, err error)
	Close() error
}

// Factory opens a Sink for cfg.
type Factory func(ctx context.Context, cfg Config) (Sink, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. It is typically
// called from sink packages' init functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a sink of cfg.Kind. An unregistered kind is an error.
func New(ctx context.Context, cfg Config) (Sink, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no sink registered for output.kind=%q", cfg.Kind)
	}
	return f(ctx, cfg)
}

// Kinds lists the registered kinds in sorted order.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
