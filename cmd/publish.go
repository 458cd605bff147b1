package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/bionotebook/seeddata/config"
	"github.com/bionotebook/seeddata/constants/lipgloss"
	"github.com/bionotebook/seeddata/datasets"
	"github.com/bionotebook/seeddata/publish"
	"github.com/bionotebook/seeddata/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Mirror the data directory to an S3-compatible bucket",
	Long: `Mirror the data directory to an S3-compatible bucket.
Every present file is uploaded as <prefix>/<notebook>/<file>. Objects that already exist
in the bucket are skipped, so a classroom mirror is never overwritten by a later run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return RunPublish(cmd, force)
	},
}

func init() {
	publishCmd.Flags().BoolP("force", "f", false, "Upload without asking for confirmation")

	rootCmd.AddCommand(publishCmd)
}

// RunPublish uploads the present datasets to the configured bucket.
func RunPublish(cmd *cobra.Command, force bool) error {
	rootDependencies, err := handleRootCommand(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = rootDependencies.Logger.Sync() }()

	cfg := rootDependencies.Config
	if cfg.S3.Bucket == "" {
		return errors.New("no bucket configured: set s3.bucket in the config file, SEEDDATA_S3_BUCKET or --bucket")
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	out := cmd.OutOrStdout()
	if !force {
		question := fmt.Sprintf("Upload %s to s3://%s/%s?", cfg.DataDir, cfg.S3.Bucket, cfg.S3.Prefix)
		ok, err := utils.ConfirmPromptWithContext(ctx, bufio.NewReader(cmd.InOrStdin()), out, question)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, lipgloss.Yellow.Render("Publish cancelled."))
			return nil
		}
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100 * time.Millisecond).WithRemoveWhenDone(true).WithWriter(out)

	spinnerInstance, _ := spinner.Start("Connecting to bucket...")
	mirror, err := publish.New(ctx, mirrorConfig(cfg.S3), out, rootDependencies.Logger)
	if spinnerInstance != nil {
		_ = spinnerInstance.Stop()
	}
	if err != nil {
		return err
	}

	paths := datasets.ArtifactPaths(cfg.DataDir, rootDependencies.Coordinator.Notebooks())
	summary := publish.Summarize(mirror.Publish(ctx, cfg.DataDir, paths))

	msg := fmt.Sprintf("Uploaded %d object(s), %d bytes; %d already in the bucket", summary.Uploaded, summary.Bytes, summary.Existing)
	if summary.Failed > 0 {
		fmt.Fprintln(out, lipgloss.Yellow.Render(fmt.Sprintf("%s; %d failed", msg, summary.Failed)))
		return nil
	}
	fmt.Fprintln(out, lipgloss.Green.Render("✓ "+msg))
	return nil
}

func mirrorConfig(s3 config.S3Config) publish.Config {
	return publish.Config{
		Region:          s3.Region,
		Bucket:          s3.Bucket,
		Endpoint:        s3.Endpoint,
		Prefix:          s3.Prefix,
		PathStyle:       s3.PathStyle,
		AccessKeyID:     s3.AccessKeyID,
		SecretAccessKey: s3.SecretAccessKey,
	}
}
