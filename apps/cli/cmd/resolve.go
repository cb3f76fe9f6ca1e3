package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitbase/packages/history"
	"github.com/abdul-hamid-achik/hitbase/packages/http"
)

var watchFlag bool

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the base URL of the system under test",
	Long: `Resolve the base URL the suite should run against and register the
engine directives (connectTimeout=5000, readTimeout=5000, ssl=true).

Strategies:
  direct  use the baseUrl property, or http://localhost:8080 when unset
  port    use http://localhost:<server.port>; fails when the port is unset

Properties are read from -D assignments, HITBASE_* environment variables
and the .env file, in that order.

Examples:
  hitbase resolve
  hitbase resolve -D baseUrl=https://staging.example.com
  hitbase resolve --strategy port -D server.port=9090
  eval "$(hitbase resolve -o shell)"
  hitbase resolve --watch`,
	Args: cobra.NoArgs,
	RunE: resolveCommand,
}

func init() {
	resolveCmd.Flags().BoolVarP(&watchFlag, "watch", "w", getEnvBool("HITBASE_WATCH", false), "Re-resolve when the config or env file changes (env: HITBASE_WATCH)")
}

func resolveCommand(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	resolveErr := runResolve(cmd, s)
	if !watchFlag {
		return resolveErr
	}

	paths := s.watchPaths()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching %d file(s) for changes... (press Ctrl+C to stop)\n", len(paths))

	var mu sync.Mutex
	return watchFiles(ctx, paths, func(name string) {
		mu.Lock()
		defer mu.Unlock()
		reresolve(cmd, name)
	})
}

// reresolve runs one resolution after a watched file changed. Errors are
// printed and never stop the watch.
func reresolve(cmd *cobra.Command, name string) {
	fmt.Fprintf(cmd.ErrOrStderr(), "\nFile changed: %s\n", name)

	err := func() error {
		fresh, err := newSession(cmd)
		if err != nil {
			return err
		}
		return runResolve(cmd, fresh)
	}()
	if err == nil {
		return
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Reported {
		return
	}
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", red("Error:"), err)
}

func runResolve(cmd *cobra.Command, s *session) error {
	res, err := s.resolve(cmd, http.NewClient())
	if err != nil {
		return err
	}
	if err := s.formatter.FormatResolution(res); err != nil {
		return err
	}

	s.record(cmd, func(ctx context.Context, store *history.Store) error {
		return store.RecordResolution(ctx, res.Strategy, res.Environment, res.Record)
	})
	return nil
}

// watchPaths lists the files a resolution was read from
func (s *session) watchPaths() []string {
	var paths []string
	if s.configPath != "" {
		paths = append(paths, s.configPath)
	}
	if s.envFile != "" {
		paths = append(paths, s.envFile)
	} else {
		paths = append(paths, DefaultEnvFile)
	}
	return paths
}

// record writes to the history store when one is configured. Failures are
// reported as warnings and never fail the command.
func (s *session) record(cmd *cobra.Command, fn func(ctx context.Context, store *history.Store) error) {
	if s.cfg.History == "" {
		return
	}
	warn := func(err error) {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(cmd.ErrOrStderr(), "%s history: %v\n", yellow("Warning:"), err)
	}

	store, err := history.Open(s.cfg.History)
	if err != nil {
		warn(err)
		return
	}
	defer store.Close()

	if err := fn(cmd.Context(), store); err != nil {
		warn(err)
	}
}
