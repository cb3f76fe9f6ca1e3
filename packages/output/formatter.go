package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitbase/packages/core/target"
	"github.com/abdul-hamid-achik/hitbase/packages/probe"
)

// Resolution is a resolved record with the context it was resolved in
type Resolution struct {
	Strategy    target.Strategy
	Environment string
	Record      target.Record
	Directives  []target.Directive
}

// Formatter writes resolutions, probe reports and errors
type Formatter interface {
	FormatResolution(res Resolution) error
	FormatReport(report *probe.Report) error
	FormatError(err error)
}

// Formats lists the accepted format names
var Formats = []string{"console", "json", "yaml", "shell"}

// Options are shared by all formatters
type Options struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
	NoColor   bool
	EnvPrefix string
}

// New returns the formatter for a format name
func New(format string, opts Options) (Formatter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.ErrWriter == nil {
		opts.ErrWriter = os.Stderr
	}

	switch strings.ToLower(format) {
	case "", "console":
		return NewConsoleFormatter(
			WithWriter(opts.Writer),
			WithVerbose(opts.Verbose),
			WithNoColor(opts.NoColor),
		), nil
	case "json":
		return &JSONFormatter{writer: opts.Writer, errWriter: opts.ErrWriter}, nil
	case "yaml":
		return &YAMLFormatter{writer: opts.Writer, errWriter: opts.ErrWriter}, nil
	case "shell":
		return &ShellFormatter{writer: opts.Writer, errWriter: opts.ErrWriter, prefix: opts.EnvPrefix}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected one of %s)", format, strings.Join(Formats, ", "))
	}
}

// document is the structured form shared by JSON and YAML
type document struct {
	BaseURL     string         `json:"baseUrl" yaml:"baseUrl"`
	Strategy    string         `json:"strategy" yaml:"strategy"`
	Environment string         `json:"environment,omitempty" yaml:"environment,omitempty"`
	Configure   map[string]any `json:"configure" yaml:"configure"`
}

func toDocument(res Resolution) document {
	configure := make(map[string]any, len(res.Directives))
	for _, d := range res.Directives {
		configure[d.Key] = d.Value
	}
	return document{
		BaseURL:     res.Record.BaseURL,
		Strategy:    string(res.Strategy),
		Environment: res.Environment,
		Configure:   configure,
	}
}

type reportDocument struct {
	ID         string   `json:"id" yaml:"id"`
	URL        string   `json:"url" yaml:"url"`
	OK         bool     `json:"ok" yaml:"ok"`
	Ready      bool     `json:"ready" yaml:"ready"`
	Attempts   int      `json:"attempts" yaml:"attempts"`
	Passed     int      `json:"passed" yaml:"passed"`
	Failed     int      `json:"failed" yaml:"failed"`
	LastStatus int      `json:"lastStatus,omitempty" yaml:"lastStatus,omitempty"`
	DurationMs int64    `json:"durationMs" yaml:"durationMs"`
	P50Ms      float64  `json:"p50Ms" yaml:"p50Ms"`
	P95Ms      float64  `json:"p95Ms" yaml:"p95Ms"`
	P99Ms      float64  `json:"p99Ms" yaml:"p99Ms"`
	MaxMs      float64  `json:"maxMs" yaml:"maxMs"`
	Failures   []string `json:"failures,omitempty" yaml:"failures,omitempty"`
	StartedAt  string   `json:"startedAt" yaml:"startedAt"`
}

func toReportDocument(r *probe.Report) reportDocument {
	return reportDocument{
		ID:         r.ID,
		URL:        r.URL,
		OK:         r.OK(),
		Ready:      r.Ready,
		Attempts:   r.Attempts,
		Passed:     r.Passed,
		Failed:     r.Failed,
		LastStatus: r.LastStatus,
		DurationMs: r.Duration.Milliseconds(),
		P50Ms:      ms(r.Latency.P50),
		P95Ms:      ms(r.Latency.P95),
		P99Ms:      ms(r.Latency.P99),
		MaxMs:      ms(r.Latency.Max),
		Failures:   r.Failures,
		StartedAt:  r.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
