// Command schemagen generates MySQL CREATE TABLE scripts from entity
// declarations described by a project file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"schemagen/internal/config"
	"schemagen/internal/metrics"
	"schemagen/internal/metrics/datadog"
	"schemagen/internal/metrics/prompush"

	// register all output sinks; the project file picks one.
	_ "schemagen/internal/storage/all"
)

func main() {
	var (
		cfgPath           string
		envPath           string
		outPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
		dump              bool
	)

	flag.StringVar(&cfgPath, "config", "schemagen.yaml", "project config path (.json, .yaml or .yml)")
	flag.StringVar(&envPath, "env", ".env", "dotenv file with METRICS_BACKEND, PUSHGATEWAY_URL, DD_AGENT_ADDR; missing is fine")
	flag.StringVar(&outPath, "out", "", "write the script to this file (overrides output.kind/path)")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend: none, pushgateway or datadog (overrides config and env)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides config and env)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&dump, "dump", false, "dump every table model to stderr before rendering")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fatalf("load %s: %v", envPath, err)
	}

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	p.ApplyEnv(os.Getenv)
	if outPath != "" {
		p.Output = config.Output{Kind: "file", Path: outPath}
	}
	if metricsBackendFlg != "" {
		p.Metrics.Backend = metricsBackendFlg
	}
	if pushGatewayURLFlg != "" {
		p.Metrics.PushgatewayURL = pushGatewayURLFlg
	}

	issues := config.ValidateProject(p)
	printIssues(os.Stderr, issues)
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	runID := uuid.NewString()
	log.Printf("schemagen: run_id=%s job=%s config=%s output=%s", runID, p.Job, cfgPath, p.Output.Kind)

	flush := setupMetrics(p.Metrics, p.Job, *verbose)
	defer flush()

	opts := runOptions{verbose: *verbose}
	if dump {
		opts.dump = os.Stderr
	}

	start := time.Now()
	sum, err := run(context.Background(), p, opts)
	if err != nil {
		flush()
		log.Fatalf("schemagen: run_id=%s err=%v", runID, err)
	}
	log.Printf("schemagen: run_id=%s rendered=%d empty=%d failed=%d degraded=%d elapsed=%s",
		runID, sum.rendered, sum.empty, sum.failed, sum.degraded, time.Since(start).Truncate(time.Millisecond))
}

// setupMetrics installs the configured backend and returns a func that
// flushes it once.
func setupMetrics(m config.Metrics, job string, verbose bool) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch m.Backend {
	case "pushgateway":
		b, err = prompush.NewBackend(job, m.PushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       m.DatadogAddr,
			GlobalTags: []string{"job:" + job},
		})
	case "", "none":
		if verbose {
			log.Printf("metrics: disabled")
		}
		return func() {}
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", m.Backend)
		return func() {}
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", m.Backend, err)
		return func() {}
	}

	log.Printf("metrics: backend=%s job_name=%s", m.Backend, job)
	metrics.SetBackend(b)
	done := false
	return func() {
		if done {
			return
		}
		done = true
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

// printIssues writes config issues, errors in red and warnings in yellow.
func printIssues(w io.Writer, issues []config.Issue) {
	errColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow)
	for _, iss := range issues {
		c := warnColor
		if iss.Severity == config.SeverityError {
			c = errColor
		}
		c.Fprintf(w, "%s", iss.Severity)
		fmt.Fprintf(w, ": %s: %s\n", iss.Path, iss.Message)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
