package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"task-manager/app"
	"task-manager/config"
	"task-manager/tui"
)

func main() {
	if err := newRootCmd(runTUI).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the CLI; run receives the validated configuration.
func newRootCmd(run func(config.Config) error) *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "task-manager",
		Short: "Terminal task list with filters, sorting and manual ordering",
		Long: `task-manager keeps a list of tasks in memory for the current session.
Tasks can be completed, reprioritized, filtered, sorted and moved by hand.
Nothing is saved when the program exits; use export to write a snapshot.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.Filter, "filter", "f", cfg.Filter, "Initial filter: all, active or completed")
	cmd.Flags().StringVarP(&cfg.Sort, "sort", "s", cfg.Sort, "Initial sort: date, priority or alphabetical")
	cmd.Flags().StringVarP(&cfg.ExportPath, "export-path", "o", cfg.ExportPath, "File written by the export key (.json for JSON, otherwise Markdown)")
	cmd.Flags().StringVar(&cfg.DebugLog, "debug-log", cfg.DebugLog, "Write debug logs to this file")
	return cmd
}

func runTUI(cfg config.Config) error {
	vs, err := cfg.ViewState()
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg.DebugLog)
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	defer closeLog()

	store := app.NewStore()
	store.SetFilter(vs.Filter)
	store.SetSort(vs.SortBy)
	log.Printf("starting with filter=%s sort=%s", vs.Filter, vs.SortBy)

	m := tui.NewModel(store, cfg.ExportPath, "")
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run UI: %w", err)
	}
	return nil
}

// setupLogging sends the std logger to path, or discards it so nothing is
// written over the UI.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "task-manager")
	if err != nil {
		return func() {}, err
	}
	return func() { _ = f.Close() }, nil
}
