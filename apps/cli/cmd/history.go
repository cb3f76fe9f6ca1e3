package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/hitbase/packages/history"
)

var historyLimitFlag int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent resolutions and probe runs",
	Long: `Show the most recent resolutions and probe runs recorded in the history
store set with --history, HITBASE_HISTORY or the history config key.

Examples:
  hitbase history --history sqlite:./hitbase.db
  hitbase history -n 50 -o json`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Maximum number of entries to show")
}

type historyEntry struct {
	Kind    string    `json:"kind" yaml:"kind"`
	At      time.Time `json:"at" yaml:"at"`
	URL     string    `json:"url" yaml:"url"`
	Detail  string    `json:"detail" yaml:"detail"`
	Success bool      `json:"success" yaml:"success"`
}

func historyCommand(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if s.cfg.History == "" {
		return s.fail(configError(fmt.Errorf("no history store configured (use --history or HITBASE_HISTORY)")))
	}
	if historyLimitFlag < 1 {
		return s.fail(usageError(fmt.Errorf("--limit must be at least 1")))
	}

	store, err := history.Open(s.cfg.History)
	if err != nil {
		return s.fail(configError(err))
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), historyLimitFlag)
	if err != nil {
		return s.fail(err)
	}

	docs := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, historyEntry(e))
	}

	w := cmd.OutOrStdout()
	switch strings.ToLower(s.cfg.Output) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(docs)
	}

	if len(docs) == 0 {
		fmt.Fprintln(w, "No history recorded yet.")
		return nil
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	for _, e := range docs {
		symbol := green("✓")
		if !e.Success {
			symbol = red("✗")
		}
		fmt.Fprintf(w, "%s %s %-7s %s %s\n", symbol, faint(e.At.Local().Format(time.DateTime)), e.Kind, e.URL, faint(e.Detail))
	}
	return nil
}
