package file

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"schemagen/internal/parser/decl"
	"schemagen/internal/schema"
)

// ErrMissingDeclaration reports that a type's declaration file does not
// exist. It is a degradation, not a failure: the entity is still returned
// with nil Lines and empty comments.
var ErrMissingDeclaration = errors.New("declaration source not found")

// Request names one entity to load.
type Request struct {
	// Name is the qualified ("com.example.User") or simple type name.
	Name string
	// Path overrides the located declaration file.
	Path string
	// Parent overrides the parent named by the declaration's "extends".
	Parent string
	// Comment is the table comment used when the declaration has none.
	Comment string
	// Fields, when non-nil, replace the descriptors discovered in the
	// declaration text.
	Fields []schema.Field
}

// Result is the outcome of loading one Request. Err is non-nil when the
// entity degraded (errors.Is(Err, ErrMissingDeclaration)) or could not be
// read at all; in the latter case Entity holds only the name.
type Result struct {
	Entity schema.Entity
	Err    error
}

// Loader reads declarations below Root with at most Workers concurrent
// reads.
type Loader struct {
	Root    string
	Workers int
}

// Load reads every request and returns one Result per request, in request
// order. The returned error is non-nil only when ctx is done; per-entity
// problems are reported in Result.Err.
func (l *Loader) Load(ctx context.Context, reqs []Request) ([]Result, error) {
	start := time.Now()
	out := make([]Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers())
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = l.loadOne(ctx, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Printf("loader: entities=%d workers=%d elapsed=%s", len(reqs), l.workers(), time.Since(start).Round(time.Millisecond))
	return out, nil
}

func (l *Loader) workers() int {
	if l.Workers > 0 {
		return l.Workers
	}
	return 4
}

func (l *Loader) loadOne(ctx context.Context, req Request) Result {
	name := SimpleName(req.Name)
	e := schema.Entity{Name: name, Qualified: req.Name, Comment: req.Comment}

	path := req.Path
	if path == "" {
		path = PathFor(l.Root, req.Name)
	}
	lines, err := l.read(ctx, path)
	if err != nil && !errors.Is(err, ErrMissingDeclaration) {
		return Result{Entity: e, Err: err}
	}
	degraded := err

	d := decl.Scan(lines, name)
	e.Lines = lines
	if d.Package != "" {
		e.Qualified = d.Qualified()
	}
	e.Fields = req.Fields
	if e.Fields == nil {
		e.Fields = d.Fields
	}

	parent := req.Parent
	if parent == "" {
		parent = d.ParentQualified()
	}
	if !schema.IsRoot(parent) {
		p, err := l.loadParent(ctx, parent)
		if err != nil {
			log.Printf("loader: type=%s parent=%s err=%v", e.ID(), parent, err)
		}
		e.Parent = p
	}
	return Result{Entity: e, Err: degraded}
}

// loadParent reads the single inherited level. Its own parent is not
// followed.
func (l *Loader) loadParent(ctx context.Context, qualified string) (*schema.Entity, error) {
	name := SimpleName(qualified)
	p := &schema.Entity{Name: name, Qualified: qualified}
	lines, err := l.read(ctx, PathFor(l.Root, qualified))
	if err != nil {
		return p, err
	}
	p.Lines = lines
	p.Fields = decl.Scan(lines, name).Fields
	return p, nil
}

func (l *Loader) read(ctx context.Context, path string) ([]string, error) {
	lines, err := ReadLines(ctx, NewLocal(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingDeclaration, path)
	}
	return lines, err
}
