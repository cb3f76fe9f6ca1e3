package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitbase/packages/core/config"
	"github.com/abdul-hamid-achik/hitbase/packages/core/env"
	"github.com/abdul-hamid-achik/hitbase/packages/core/target"
	"github.com/abdul-hamid-achik/hitbase/packages/output"
)

// DefaultEnvFile is loaded when present and no env file is configured
const DefaultEnvFile = ".env"

var (
	configFlag    string
	envFileFlag   string
	strategyFlag  string
	propertyFlags []string
	outputFlag    string
	noColorFlag   bool
	verboseFlag   bool
	historyFlag   string
)

func addSharedFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", getEnvString("HITBASE_CONFIG", ""), "Path to config file (env: HITBASE_CONFIG)")
	flags.StringVar(&envFileFlag, "env-file", getEnvString("HITBASE_ENV_FILE", ""), "Path to .env file with properties (env: HITBASE_ENV_FILE)")
	flags.StringVarP(&strategyFlag, "strategy", "s", getEnvString("HITBASE_STRATEGY", ""), "Resolution strategy: direct, port (env: HITBASE_STRATEGY)")
	flags.StringArrayVarP(&propertyFlags, "property", "D", nil, "Set a property, e.g. -D baseUrl=https://api.example.com")
	flags.StringVarP(&outputFlag, "output", "o", getEnvString("HITBASE_OUTPUT", ""), "Output format: console, json, yaml, shell (env: HITBASE_OUTPUT)")
	flags.BoolVar(&noColorFlag, "no-color", getEnvBool("HITBASE_NO_COLOR", false), "Disable colored output (env: HITBASE_NO_COLOR)")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Show strategy, directives and property sources")
	flags.StringVar(&historyFlag, "history", getEnvString("HITBASE_HISTORY", ""), "Record runs in a history store, e.g. sqlite:./hitbase.db (env: HITBASE_HISTORY)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// session is the configuration a single command invocation works with
type session struct {
	cfg        *config.Config
	configPath string
	envFile    string
	props      *env.Properties
	formatter  output.Formatter
}

func newSession(cmd *cobra.Command) (*session, error) {
	s := &session{}

	s.configPath = configFlag
	if s.configPath == "" {
		s.configPath = config.FindConfigFile(".")
	}
	fileConfig := config.DefaultConfig()
	if s.configPath != "" {
		loaded, err := config.LoadConfig(s.configPath)
		if err != nil {
			return nil, configError(err)
		}
		fileConfig = loaded
	}

	overrides := &config.Config{
		Strategy: strategyFlag,
		EnvFile:  envFileFlag,
		Output:   outputFlag,
		History:  historyFlag,
	}
	if cmd.Flags().Changed("no-color") || noColorFlag {
		overrides.NoColor = config.BoolPtr(noColorFlag)
	}
	if verboseFlag {
		overrides.Verbose = config.BoolPtr(true)
	}
	s.cfg = fileConfig.Merge(overrides)

	formatter, err := output.New(s.cfg.Output, output.Options{
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   s.cfg.GetVerbose(),
		NoColor:   s.cfg.GetNoColor(),
		EnvPrefix: env.DefaultPrefix,
	})
	if err != nil {
		return nil, usageError(err)
	}
	s.formatter = formatter

	if err := s.loadProperties(); err != nil {
		return nil, s.fail(configError(err))
	}

	return s, nil
}

func (s *session) loadProperties() error {
	opts := []env.PropertiesOption{env.WithSystem(env.LoadSystemEnv(env.DefaultPrefix))}

	s.envFile = s.cfg.EnvFile
	if s.envFile == "" {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			s.envFile = DefaultEnvFile
		}
	}
	if s.envFile != "" {
		vars, err := env.LoadDotEnv(s.envFile)
		if err != nil {
			return err
		}
		opts = append(opts, env.WithDotEnv(vars))
	}

	assignments, err := env.ParseAssignments(propertyFlags)
	if err != nil {
		return err
	}
	opts = append(opts, env.WithAssignments(assignments))

	s.props = env.NewProperties(env.DefaultPrefix, opts...)
	return nil
}

// resolve computes the record and registers the directives with engine,
// which may be nil when only the record is needed.
func (s *session) resolve(cmd *cobra.Command, engine target.Configurer) (output.Resolution, error) {
	strategy, err := target.ParseStrategy(s.cfg.Strategy)
	if err != nil {
		return output.Resolution{}, s.fail(usageError(err))
	}

	names := s.cfg.Properties.WithDefaults()
	inputs, err := env.ParseInputs(s.props, names)
	if err != nil {
		return output.Resolution{}, s.fail(configError(err))
	}

	logf := func(format string, args ...any) {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}

	if s.cfg.GetVerbose() {
		for _, name := range []string{names.BaseURL, names.ServerPort, names.Env} {
			if _, source := s.props.Lookup(name); source != env.SourceNone {
				logf("property %s from %s (%s)", name, source, s.props.EnvName(name))
			}
		}
	}

	resolver := target.NewResolver(strategy,
		target.WithPortProperty(names.ServerPort),
		target.WithLogFunc(logf),
	)

	collector := &directiveCollector{next: engine}
	rec, err := resolver.Apply(inputs, collector)
	if err != nil {
		if errors.Is(err, target.ErrMissingConfiguration) {
			err = fmt.Errorf("%w (set -D %s=<port> or %s)", err, names.ServerPort, s.props.EnvName(names.ServerPort))
		}
		return output.Resolution{}, s.fail(configError(err))
	}

	environment := inputs.EnvName
	if environment == "" {
		environment = s.cfg.Environment
	}

	return output.Resolution{
		Strategy:    strategy,
		Environment: environment,
		Record:      rec,
		Directives:  collector.directives,
	}, nil
}

// fail reports err through the formatter and marks it reported
func (s *session) fail(err error) error {
	exitErr, ok := err.(*ExitError)
	if !ok {
		exitErr = &ExitError{Code: ExitFailure, Err: err}
	}
	if s.formatter != nil && !exitErr.Reported {
		s.formatter.FormatError(exitErr.Err)
		exitErr.Reported = true
	}
	return exitErr
}

func configError(err error) error {
	return &ExitError{Code: ExitConfigError, Err: err}
}

// directiveCollector records the directives it forwards to the engine
type directiveCollector struct {
	next       target.Configurer
	directives []target.Directive
}

func (c *directiveCollector) Configure(key string, value any) error {
	if c.next != nil {
		if err := c.next.Configure(key, value); err != nil {
			return err
		}
	}
	c.directives = append(c.directives, target.Directive{Key: key, Value: value})
	return nil
}
