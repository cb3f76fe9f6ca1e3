package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/hitbase/packages/probe"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResolution(res Resolution) error {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", bold("baseUrl:"), cyan(res.Record.BaseURL))

	if f.verbose {
		fmt.Fprintf(f.writer, "  strategy:    %s\n", res.Strategy)
		if res.Environment != "" {
			fmt.Fprintf(f.writer, "  environment: %s\n", res.Environment)
		}
		for _, d := range res.Directives {
			fmt.Fprintf(f.writer, "  %s %s = %v\n", faint("configure"), d.Key, d.Value)
		}
	}
	return nil
}

func (f *ConsoleFormatter) FormatReport(r *probe.Report) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	symbol := green("✓")
	if !r.OK() {
		symbol = red("✗")
	}

	fmt.Fprintf(f.writer, "\n%s %s\n", symbol, bold(r.URL))
	if !r.Ready {
		fmt.Fprintf(f.writer, "  %s\n", red("target not ready"))
	}

	for _, failure := range r.Failures {
		fmt.Fprintf(f.writer, "  %s %s\n", red("→"), failure)
	}

	fmt.Fprintf(f.writer, "\nAttempts: ")
	if r.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", r.Passed)))
	}
	if r.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", r.Failed)))
	}
	fmt.Fprintf(f.writer, "%d total\n", r.Attempts)

	if r.Latency.Count > 0 {
		fmt.Fprintf(f.writer, "Latency:  %s\n", cyan(fmt.Sprintf("p50 %.1fms  p95 %.1fms  p99 %.1fms  max %.1fms",
			ms(r.Latency.P50), ms(r.Latency.P95), ms(r.Latency.P99), ms(r.Latency.Max))))
	}
	fmt.Fprintf(f.writer, "Time:     %dms\n", r.Duration.Milliseconds())
	if f.verbose {
		fmt.Fprintf(f.writer, "Run:      %s\n", r.ID)
	}
	return nil
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}
