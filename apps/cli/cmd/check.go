package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitbase/packages/core/config"
	"github.com/abdul-hamid-achik/hitbase/packages/history"
	"github.com/abdul-hamid-achik/hitbase/packages/http"
	"github.com/abdul-hamid-achik/hitbase/packages/probe"
)

var (
	checkPathFlag     string
	checkStatusFlag   int
	checkAttemptsFlag int
	checkRateFlag     float64
	checkWaitFlag     time.Duration
	checkIntervalFlag time.Duration
	checkHeaderFlags  []string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Resolve the base URL and probe the target",
	Long: `Resolve the base URL, configure an HTTP client with the resolved
directives and probe the target before a suite is started.

With --wait the target is polled until it answers with the expected status.
Body checks from the config file (probe.expect) are evaluated against every
response using gjson paths.

Exit codes:
  0  target is ready and every attempt passed
  3  configuration error (missing port, invalid property)
  4  target not ready or an attempt failed

Examples:
  hitbase check
  hitbase check --path /actuator/health --wait 30s
  hitbase check --strategy port -D server.port=9090 --attempts 10 --rate 5`,
	Args: cobra.NoArgs,
	RunE: checkCommand,
}

func init() {
	checkCmd.Flags().StringVar(&checkPathFlag, "path", getEnvString("HITBASE_PROBE_PATH", ""), "Path to probe, relative to the base URL (env: HITBASE_PROBE_PATH)")
	checkCmd.Flags().IntVar(&checkStatusFlag, "expect-status", 0, "Expected status code (default 200)")
	checkCmd.Flags().IntVarP(&checkAttemptsFlag, "attempts", "n", getEnvInt("HITBASE_PROBE_ATTEMPTS", 0), "Number of probe requests (env: HITBASE_PROBE_ATTEMPTS)")
	checkCmd.Flags().Float64VarP(&checkRateFlag, "rate", "r", 0, "Probe requests per second")
	checkCmd.Flags().DurationVar(&checkWaitFlag, "wait", 0, "Wait up to this long for the target to become ready")
	checkCmd.Flags().DurationVar(&checkIntervalFlag, "interval", 0, "Polling interval while waiting")
	checkCmd.Flags().StringArrayVarP(&checkHeaderFlags, "header", "H", nil, "Extra request header, e.g. -H 'Authorization: Bearer x'")
}

func checkCommand(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	cfg := s.cfg.Merge(&config.Config{
		Probe: config.ProbeConfig{
			Path:         checkPathFlag,
			ExpectStatus: checkStatusFlag,
			Attempts:     checkAttemptsFlag,
			Rate:         checkRateFlag,
			WaitTimeout:  int(checkWaitFlag / time.Millisecond),
			Interval:     int(checkIntervalFlag / time.Millisecond),
		},
	})

	headers, err := parseHeaders(checkHeaderFlags)
	if err != nil {
		return s.fail(usageError(err))
	}
	cfg = cfg.Merge(&config.Config{Headers: headers})

	client := http.NewClient(http.WithDefaultHeaders(cfg.Headers))
	defer client.CloseIdleConnections()

	res, err := s.resolve(cmd, client)
	if err != nil {
		return err
	}
	if s.cfg.GetVerbose() {
		if err := s.formatter.FormatResolution(res); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []probe.Option
	if cfg.GetVerbose() {
		opts = append(opts, probe.WithLogFunc(func(format string, args ...any) {
			fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
		}))
	}
	prober := probe.New(client, probeConfig(cfg.Probe), opts...)

	report, runErr := prober.Run(ctx, res.Record.BaseURL)
	if report != nil {
		if err := s.formatter.FormatReport(report); err != nil {
			return err
		}
		s.record(cmd, func(ctx context.Context, store *history.Store) error {
			if err := store.RecordResolution(ctx, res.Strategy, res.Environment, res.Record); err != nil {
				return err
			}
			return store.RecordProbe(ctx, report)
		})
	}

	switch {
	case runErr == nil && report.OK():
		return nil
	case errors.Is(runErr, probe.ErrNotReady):
		return s.fail(&ExitError{Code: ExitNetworkError, Err: runErr})
	case runErr != nil:
		return s.fail(runErr)
	default:
		return s.fail(&ExitError{
			Code: ExitNetworkError,
			Err:  fmt.Errorf("check failed: %d of %d attempts failed against %s", report.Failed, report.Attempts, report.URL),
		})
	}
}

func probeConfig(c config.ProbeConfig) probe.Config {
	checks := make([]probe.Check, 0, len(c.Expect))
	for _, e := range c.Expect {
		checks = append(checks, probe.Check{Path: e.Path, Equals: e.Equals})
	}
	return probe.Config{
		Path:         c.Path,
		ExpectStatus: c.ExpectStatus,
		Attempts:     c.Attempts,
		Rate:         c.Rate,
		WaitTimeout:  time.Duration(c.WaitTimeout) * time.Millisecond,
		Interval:     time.Duration(c.Interval) * time.Millisecond,
		Expect:       checks,
	}
}

func parseHeaders(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected 'Name: value'", v)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}
