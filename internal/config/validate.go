// Package config provides the project model and helpers.
//
// This file adds a linter for Project values. It performs static checks over
// a decoded Project and returns a list of issues (errors and warnings) that
// the CLI surfaces before a run, or alone with -validate.
package config

import (
	"fmt"
	"sort"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that is surfaced but does not block
	// execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "output.path",
// "entities[1].fields[0].name"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateProject performs static validation of a Project. It does not
// mutate p. Callers decide whether warnings are fatal.
func ValidateProject(p Project) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p)...)
	issues = append(issues, validateEntities(p.Entities)...)
	issues = append(issues, validateNaming(p.Naming)...)
	issues = append(issues, validateCustomize(p.Customize)...)
	issues = append(issues, validateOutput(p.Output)...)
	issues = append(issues, validateRuntime(p.Runtime)...)
	issues = append(issues, validateMetrics(p.Metrics)...)

	return issues
}

// validateSource checks that there is something to generate and a place to
// find it.
func validateSource(p Project) []Issue {
	var issues []Issue
	s := p.Source

	if len(p.Entities) == 0 && len(s.Scan) == 0 && strings.TrimSpace(s.List) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "entities",
			Message:  "nothing to generate; configure entities, source.scan or source.list",
		})
	}

	needsRoot := len(s.Scan) > 0 || strings.TrimSpace(s.List) != ""
	for _, e := range p.Entities {
		if strings.TrimSpace(e.Source) == "" {
			needsRoot = true
		}
	}
	if needsRoot && strings.TrimSpace(s.Root) == "" && strings.TrimSpace(s.Dir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.root",
			Message:  "source.root or source.dir is required to locate declarations",
		})
	}

	for i, pkg := range s.Scan {
		if strings.TrimSpace(pkg) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("source.scan[%d]", i),
				Message:  "scan entry must not be empty",
			})
		}
	}
	return issues
}

func validateEntities(es []Entity) []Issue {
	var issues []Issue

	seen := map[string]int{}
	for i, e := range es {
		path := fmt.Sprintf("entities[%d]", i)
		name := strings.TrimSpace(e.Name)
		if name == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".name",
				Message:  "entity name must not be empty",
			})
			continue
		}
		if j, dup := seen[name]; dup {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".name",
				Message:  fmt.Sprintf("entity %q already listed at entities[%d]; this entry is ignored", name, j),
			})
		} else {
			seen[name] = i
		}

		if e.Fields != nil && len(e.Fields) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".fields",
				Message:  "fields is an empty list; the entity will produce no table",
			})
		}
		fieldSeen := map[string]bool{}
		for j, f := range e.Fields {
			fpath := fmt.Sprintf("%s.fields[%d].name", path, j)
			if strings.TrimSpace(f.Name) == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     fpath,
					Message:  "field name must not be empty",
				})
				continue
			}
			if fieldSeen[f.Name] {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     fpath,
					Message:  fmt.Sprintf("duplicate field %q; the first declaration wins", f.Name),
				})
			}
			fieldSeen[f.Name] = true
		}
	}
	return issues
}

func validateNaming(n Naming) []Issue {
	var issues []Issue
	for path, v := range map[string]string{
		"naming.table_prefix":  n.TablePrefix,
		"naming.column_prefix": n.ColumnPrefix,
	} {
		if strings.ContainsAny(v, "`'\" ") {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("prefix %q must not contain quotes, backticks or spaces", v),
			})
		}
	}
	sortIssues(issues)
	return issues
}

func validateCustomize(m map[string][]Customization) []Issue {
	var issues []Issue

	for _, table := range sortedKeys(m) {
		for i, c := range m[table] {
			path := fmt.Sprintf("customize.%s[%d]", table, i)

			set := 0
			if c.Key != "" {
				set++
			}
			if c.Column != nil {
				set++
			}
			if c.Exclude != nil {
				set++
			}
			if set != 1 {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     path,
					Message:  fmt.Sprintf("exactly one of key, column or exclude must be set (got %d)", set),
				})
				continue
			}

			switch {
			case c.Column != nil:
				if strings.TrimSpace(c.Column.Field) == "" {
					issues = append(issues, Issue{
						Severity: SeverityError,
						Path:     path + ".column.field",
						Message:  "column override requires a field",
					})
				}
				if c.Column.Type == nil && c.Column.Comment == nil && c.Column.Default == nil {
					issues = append(issues, Issue{
						Severity: SeverityWarning,
						Path:     path + ".column",
						Message:  "column override changes nothing; set type, comment or default",
					})
				}
			case c.Exclude != nil:
				if len(c.Exclude) == 0 {
					issues = append(issues, Issue{
						Severity: SeverityWarning,
						Path:     path + ".exclude",
						Message:  "exclude list is empty",
					})
				}
			}
		}
	}
	return issues
}

func validateOutput(o Output) []Issue {
	var issues []Issue

	known := map[string]struct{}{
		"file":   {},
		"stdout": {},
	}
	if o.Kind == "" {
		return issues
	}
	if _, ok := known[o.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.kind",
			Message:  fmt.Sprintf("unknown output kind %q; use file or stdout", o.Kind),
		})
		return issues
	}
	if o.Kind == "file" && strings.TrimSpace(o.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.path",
			Message:  "file output requires a non-empty path",
		})
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue

	if r.Workers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.workers",
			Message:  "workers must not be negative",
		})
	}
	if r.HTTPRetries < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.http_retries",
			Message:  "http_retries must not be negative",
		})
	}
	if r.Workers > 64 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "runtime.workers",
			Message:  fmt.Sprintf("workers=%d; declaration reads are small and rarely benefit from more than 64", r.Workers),
		})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch m.Backend {
	case "", "none":
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway backend requires pushgateway_url (or PUSHGATEWAY_URL)",
			})
		}
	case "datadog":
		if strings.TrimSpace(m.DatadogAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "metrics.datadog_addr",
				Message:  "datadog backend requires datadog_addr (or DD_AGENT_ADDR)",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics are disabled", m.Backend),
		})
	}
	return issues
}

func sortedKeys(m map[string][]Customization) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortIssues(issues []Issue) {
	sort.Slice(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
}
