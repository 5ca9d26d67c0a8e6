package storage

import (
	"context"
	"strings"
	"testing"
)

type memSink struct{ got []string }

func (m *memSink) Write(_ context.Context, s string) (bool, error) {
	m.got = append(m.got, s)
	return true, nil
}
func (m *memSink) Close() error { return nil }

func TestRegistry(t *testing.T) {
	mem := &memSink{}
	Register("mem-test", func(ctx context.Context, cfg Config) (Sink, error) { return mem, nil })

	s, err := New(context.Background(), Config{Kind: "mem-test"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := s.Write(context.Background(), "CREATE TABLE x;"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(mem.got) != 1 {
		t.Fatalf("sink received %d writes, want 1", len(mem.got))
	}

	found := false
	for _, k := range Kinds() {
		if k == "mem-test" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Kinds() = %v, want mem-test listed", Kinds())
	}

	_, err = New(context.Background(), Config{Kind: "nope"})
	if err == nil || !strings.Contains(err.Error(), `output.kind="nope"`) {
		t.Fatalf("New(nope) error = %v", err)
	}
}
