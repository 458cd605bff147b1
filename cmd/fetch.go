package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/bionotebook/seeddata/constants/lipgloss"
	"github.com/bionotebook/seeddata/materializer"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// fetchCmd: seeddata fetch
var fetchCmd = &cobra.Command{
	Use:   "fetch [notebook...]",
	Short: "Download or generate every missing dataset, optionally only for the named notebooks",
	Long: `The 'fetch' subcommand walks the notebooks in order (nb01 to nb08) and materializes each missing file.
A failed download is reported and the run moves on; the proteome table falls back to a synthetic
table when UniProt cannot be reached. Existing files are skipped, so the command is safe to re-run.`,
	Example: "  seeddata fetch\n  seeddata fetch nb02 nb08",
	RunE:    runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	rootDependencies, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = rootDependencies.Logger.Sync() }()

	if _, err := rootDependencies.Coordinator.Select(args); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stats, err := rootDependencies.Coordinator.Run(ctx, args...)
	out := cmd.OutOrStdout()
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, lipgloss.Yellow.Render("🔄 Interrupted, remaining notebooks were not processed."))
	} else if err != nil {
		return err
	}
	printRunSummary(out, stats)
	return nil
}

func printRunSummary(out io.Writer, s materializer.Snapshot) {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Written", "Skipped", "Failed", "Fallbacks", "Bytes written", "Elapsed"},
		{
			fmt.Sprint(s.Written),
			fmt.Sprint(s.Skipped),
			fmt.Sprint(s.Failed),
			fmt.Sprint(s.Fallbacks),
			fmt.Sprint(s.BytesWritten),
			s.Elapsed.Round(time.Millisecond).String(),
		},
	}).Srender()
	if err != nil {
		return
	}
	fmt.Fprintln(out, table)
	if s.Failed > 0 {
		fmt.Fprintln(out, lipgloss.Yellow.Render(fmt.Sprintf("%d file(s) could not be produced; re-run to retry them.", s.Failed)))
	}
}
