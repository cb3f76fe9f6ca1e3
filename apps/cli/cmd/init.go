package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/hitbase/packages/core/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize hitbase in the current directory",
	Long: `Initialize hitbase in the current directory.

This creates:
  - .hitbase.yaml  - Configuration file with the resolution strategy and probe
  - .env.example   - Example properties for local runs

Examples:
  hitbase init
  hitbase init --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const envExample = `# Properties read by hitbase. -D assignments and HITBASE_* environment
# variables take precedence over this file.

# direct strategy: explicit base URL (defaults to http://localhost:8080)
HITBASE_BASE_URL=http://localhost:8080

# port strategy: port the local server was started on
# HITBASE_SERVER_PORT=8080

# HITBASE_ENV=dev
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, ".hitbase.yaml")
	exampleFile := filepath.Join(cwd, ".env.example")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return usageError(fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Probe.Path = "/actuator/health"
	cfg.Probe.Expect = []config.BodyCheck{{Path: "status", Equals: "UP"}}

	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(envExample), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nhitbase initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Copy .env.example to .env and run 'hitbase resolve' to see the base URL.\n")

	return nil
}
