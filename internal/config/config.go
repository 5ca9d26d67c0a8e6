// Package config defines the project file that drives a generator run: which
// entities to read, how names and comments are shaped, the per-table
// customizations and where the DDL script goes.
//
// Project files are JSON or YAML; Load picks the decoder by file extension.
// Field names mirror the file keys.
//
// Example (trimmed, YAML):
//
//	job: billing-schema
//	source:
//	  root: ../billing-service
//	  scan: [com.example.billing.entity]
//	naming:
//	  table_prefix: t_
//	customize:
//	  country:
//	    - key: code
//	    - exclude: [legacyFlag]
//	output:
//	  kind: file
//	  path: build/schema.sql
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"schemagen/internal/datasource/httpds"
	"schemagen/internal/schema"
)

// Project is the top-level object decoded from a project file.
type Project struct {
	// Job names the run in logs and metrics.
	Job string `json:"job" yaml:"job"`

	Source   Source   `json:"source" yaml:"source"`
	Entities []Entity `json:"entities" yaml:"entities"`
	Naming   Naming   `json:"naming" yaml:"naming"`

	// Customize maps an entity's simple name or table name to the ordered
	// customizations applied to its table.
	Customize map[string][]Customization `json:"customize" yaml:"customize"`

	Output  Output        `json:"output" yaml:"output"`
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
	Metrics Metrics       `json:"metrics" yaml:"metrics"`
}

// Source locates declaration files.
type Source struct {
	// Root is the project root. Declarations live under src/main/java when a
	// pom.xml is present there, else under src.
	Root string `json:"root" yaml:"root"`

	// Dir, when set, is the declarations directory itself and bypasses the
	// Root layout convention.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Scan lists packages whose declaration files are all processed,
	// recursively.
	Scan []string `json:"scan,omitempty" yaml:"scan,omitempty"`

	// List is a file or http(s) URL of qualified type names, one per line,
	// '#' comments.
	List string `json:"list,omitempty" yaml:"list,omitempty"`
}

// Entity describes one type explicitly.
type Entity struct {
	// Name is the qualified or simple type name.
	Name string `json:"name" yaml:"name"`
	// Parent overrides the parent named in the declaration.
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
	// Source is an explicit declaration file path.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	// Comment is the table comment used when the declaration has none.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
	// Fields replace the descriptors discovered in the declaration text.
	Fields []schema.Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Naming shapes table names and comments.
type Naming struct {
	TablePrefix  string `json:"table_prefix,omitempty" yaml:"table_prefix,omitempty"`
	ColumnPrefix string `json:"column_prefix,omitempty" yaml:"column_prefix,omitempty"`
	// TableSuffix is the table comment marker; nil means the default "表"
	// and "" disables it.
	TableSuffix *string `json:"table_suffix,omitempty" yaml:"table_suffix,omitempty"`
	KeyComment  string  `json:"key_comment,omitempty" yaml:"key_comment,omitempty"`
}

// Customization is one step in a table's customization list. Exactly one of
// Key, Column and Exclude is set.
type Customization struct {
	// Key names the field that becomes the primary key.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
	// Column overrides attributes of one column.
	Column *ColumnOverride `json:"column,omitempty" yaml:"column,omitempty"`
	// Exclude names fields whose columns are not rendered.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// ColumnOverride carries the attributes to overwrite; absent ones are kept.
type ColumnOverride struct {
	Field   string  `json:"field" yaml:"field"`
	Type    *string `json:"type,omitempty" yaml:"type,omitempty"`
	Comment *string `json:"comment,omitempty" yaml:"comment,omitempty"`
	Default *string `json:"default,omitempty" yaml:"default,omitempty"`
}

// Output selects the sink for the DDL script.
type Output struct {
	// Kind is "file" or "stdout" (the default).
	Kind string `json:"kind" yaml:"kind"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// RuntimeConfig controls concurrency.
type RuntimeConfig struct {
	// Workers bounds concurrent declaration reads; 0 means the default.
	Workers int `json:"workers" yaml:"workers"`
	// HTTPRetries is the retry budget for a source.list URL.
	HTTPRetries int `json:"http_retries,omitempty" yaml:"http_retries,omitempty"`
}

// Metrics selects a metrics backend.
type Metrics struct {
	// Backend is "none" (default), "pushgateway" or "datadog".
	Backend        string `json:"backend,omitempty" yaml:"backend,omitempty"`
	PushgatewayURL string `json:"pushgateway_url,omitempty" yaml:"pushgateway_url,omitempty"`
	DatadogAddr    string `json:"datadog_addr,omitempty" yaml:"datadog_addr,omitempty"`
}

// Load reads and decodes the project file at path. Files ending in .yaml or
// .yml are YAML, anything else JSON. Unknown keys are errors in both.
// Relative source paths are resolved against the file's directory, and
// defaults are applied.
func Load(path string) (Project, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("read config: %w", err)
	}
	p, err := Decode(b, filepath.Ext(path))
	if err != nil {
		return Project{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	p.resolvePaths(filepath.Dir(path))
	return p, nil
}

// Decode decodes a project document; ext selects the format as in Load.
func Decode(b []byte, ext string) (Project, error) {
	var p Project
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return Project{}, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return Project{}, err
		}
	}
	p.applyDefaults()
	return p, nil
}

func (p *Project) applyDefaults() {
	if strings.TrimSpace(p.Output.Kind) == "" {
		p.Output.Kind = "stdout"
	}
	if strings.TrimSpace(p.Metrics.Backend) == "" {
		p.Metrics.Backend = "none"
	}
}

func (p *Project) resolvePaths(base string) {
	abs := func(s string) string {
		if s == "" || filepath.IsAbs(s) {
			return s
		}
		return filepath.Join(base, s)
	}
	p.Source.Root = abs(p.Source.Root)
	p.Source.Dir = abs(p.Source.Dir)
	if !httpds.IsURL(p.Source.List) {
		p.Source.List = abs(p.Source.List)
	}
	for i := range p.Entities {
		p.Entities[i].Source = abs(p.Entities[i].Source)
	}
	if p.Output.Kind == "file" {
		p.Output.Path = abs(p.Output.Path)
	}
}

// ApplyEnv overrides metrics settings from the environment:
// METRICS_BACKEND, PUSHGATEWAY_URL and DD_AGENT_ADDR. getenv is usually
// os.Getenv.
func (p *Project) ApplyEnv(getenv func(string) string) {
	if v := getenv("METRICS_BACKEND"); v != "" {
		p.Metrics.Backend = v
	}
	if v := getenv("PUSHGATEWAY_URL"); v != "" {
		p.Metrics.PushgatewayURL = v
	}
	if v := getenv("DD_AGENT_ADDR"); v != "" {
		p.Metrics.DatadogAddr = v
	}
}
