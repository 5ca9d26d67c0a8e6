package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/davecgh/go-spew/spew"

	"schemagen/internal/config"
	"schemagen/internal/datasource"
	"schemagen/internal/datasource/file"
	"schemagen/internal/datasource/httpds"
	"schemagen/internal/ddl"
	"schemagen/internal/metrics"
	"schemagen/internal/schema"
	"schemagen/internal/storage"
)

// runOptions carries the CLI switches that are not part of the project file.
type runOptions struct {
	verbose bool
	// dump, when non-nil, receives a spew dump of every built table.
	dump io.Writer
	// stdout overrides the destination of the stdout sink.
	stdout io.Writer
}

// summary counts entity outcomes for the final log line.
type summary struct {
	rendered, empty, failed, degraded int
}

// run executes one generator run: load declarations, build and render one
// statement per entity, then write the script to the configured sink.
func run(ctx context.Context, p config.Project, opts runOptions) (summary, error) {
	var sum summary

	srcRoot := p.Source.Dir
	if srcRoot == "" && p.Source.Root != "" {
		srcRoot = file.SourceRoot(p.Source.Root)
	}

	start := time.Now()
	results, err := load(ctx, p, srcRoot)
	metrics.RecordStep(p.Job, "load", err, time.Since(start))
	if err != nil {
		return sum, err
	}

	start = time.Now()
	stmts := generate(results, p, p.OpsFor, opts, &sum)
	metrics.RecordStep(p.Job, "generate", nil, time.Since(start))

	start = time.Now()
	err = write(ctx, p, opts, ddl.JoinStatements(stmts))
	metrics.RecordStep(p.Job, "write", err, time.Since(start))
	if err != nil {
		return sum, err
	}
	metrics.RecordStatements(p.Job, int64(len(stmts)))
	return sum, nil
}

func load(ctx context.Context, p config.Project, srcRoot string) ([]file.Result, error) {
	reqs, err := requests(ctx, p, srcRoot)
	if err != nil {
		return nil, err
	}
	results, err := (&file.Loader{Root: srcRoot, Workers: p.Runtime.Workers}).Load(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("load declarations: %w", err)
	}
	return results, nil
}

// requests lists the entities of a run: explicit entities first, then the
// list file, then scanned packages. A name seen before is skipped.
func requests(ctx context.Context, p config.Project, srcRoot string) ([]file.Request, error) {
	var out []file.Request
	seen := map[string]bool{}
	add := func(r file.Request) {
		if seen[r.Name] {
			return
		}
		seen[r.Name] = true
		out = append(out, r)
	}

	for _, e := range p.Entities {
		add(file.Request{
			Name:    e.Name,
			Path:    e.Source,
			Parent:  e.Parent,
			Comment: e.Comment,
			Fields:  e.Fields,
		})
	}
	if p.Source.List != "" {
		names, err := file.ReadList(ctx, listSource(p))
		if err != nil {
			return nil, fmt.Errorf("read source.list: %w", err)
		}
		for _, n := range names {
			add(file.Request{Name: n})
		}
	}
	for _, pkg := range p.Source.Scan {
		names, err := file.ScanPackage(srcRoot, pkg)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			add(file.Request{Name: n})
		}
	}
	return out, nil
}

// listSource opens source.list from disk or, for an http(s) URL, over HTTP.
func listSource(p config.Project) datasource.Source {
	if httpds.IsURL(p.Source.List) {
		return httpds.NewRemote(p.Source.List, httpds.NewClient(httpds.Config{MaxRetries: p.Runtime.HTTPRetries}))
	}
	return file.NewLocal(p.Source.List)
}

// generate renders one statement per loaded entity, in input order. Entities
// that fail, or have no mappable field, are logged and left out.
func generate(results []file.Result, p config.Project, opsFor func(entity, table string) []ddl.Op, opts runOptions, sum *summary) []string {
	buildOpts := p.Naming.BuildOptions()
	stmts := make([]string, 0, len(results))
	for _, r := range results {
		e := r.Entity
		if r.Err != nil {
			if !errors.Is(r.Err, file.ErrMissingDeclaration) {
				log.Printf("schemagen: type=%s err=%v", e.ID(), r.Err)
				sum.failed++
				metrics.RecordTable(p.Job, metrics.TableFailed)
				continue
			}
			log.Printf("schemagen: type=%s degraded: %v", e.ID(), r.Err)
			sum.degraded++
			metrics.RecordTable(p.Job, metrics.TableDegraded)
		}

		sql, err := processOne(e, buildOpts, opsFor, opts.dump)
		switch {
		case errors.Is(err, ddl.ErrEmptyTable):
			log.Printf("schemagen: type=%s skipped: no mappable fields", e.ID())
			sum.empty++
			metrics.RecordTable(p.Job, metrics.TableEmpty)
		case err != nil:
			log.Printf("schemagen: type=%s err=%v", e.ID(), err)
			sum.failed++
			metrics.RecordTable(p.Job, metrics.TableFailed)
		default:
			if opts.verbose {
				log.Printf("schemagen: type=%s rendered", e.ID())
			}
			sum.rendered++
			metrics.RecordTable(p.Job, metrics.TableRendered)
			stmts = append(stmts, sql)
		}
	}
	return stmts
}

// processOne builds, customizes and renders one entity. A panic is recovered
// and returned as an error so that no partial statement escapes.
func processOne(e schema.Entity, buildOpts ddl.BuildOptions, opsFor func(entity, table string) []ddl.Op, dump io.Writer) (sql string, err error) {
	defer func() {
		if r := recover(); r != nil {
			sql, err = "", fmt.Errorf("panic: %v", r)
		}
	}()

	t, err := ddl.BuildTable(e, buildOpts)
	if err != nil {
		return "", err
	}
	ddl.Apply(t, opsFor(e.Name, t.Name)...)
	if dump != nil {
		spew.Fdump(dump, t)
	}
	return ddl.BuildCreateTableSQL(t)
}

func write(ctx context.Context, p config.Project, opts runOptions, script string) error {
	sink, err := storage.New(ctx, storage.Config{
		Kind:   p.Output.Kind,
		Path:   p.Output.Path,
		Writer: opts.stdout,
	})
	if err != nil {
		return err
	}
	defer sink.Close()

	if _, err := sink.Write(ctx, script); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
