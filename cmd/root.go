package cmd

import (
	"fmt"
	"os"

	"github.com/bionotebook/seeddata/config"
	"github.com/bionotebook/seeddata/constants/lipgloss"
	"github.com/bionotebook/seeddata/datasets"
	"github.com/bionotebook/seeddata/fetcher"
	"github.com/bionotebook/seeddata/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootDependencies holds what every subcommand works with.
type RootDependencies struct {
	Cwd         string
	Config      *config.Config
	Logger      *zap.SugaredLogger
	Coordinator *datasets.Coordinator
}

var rootCmd = &cobra.Command{
	Use:   "seeddata [notebook...]",
	Short: "Fetch or generate the datasets used by the bioinformatics teaching notebooks",
	Long: `seeddata prepares the data directory of the bioinformatics notebooks.
Each dataset is written once: files that already exist with a non-zero size are never touched.
Records are downloaded from NCBI, UniProt, RCSB and 10x Genomics; genotype, phenotype and
expression tables are simulated from a fixed seed so every run produces the same bytes.
Running without a subcommand is the same as 'seeddata fetch'.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if version, _ := cmd.Flags().GetBool("version"); version {
			fmt.Fprintln(cmd.OutOrStdout(), lipgloss.BlueSky.Render("seeddata version "+config.DefaultConfig.Version))
			return nil
		}
		return runFetch(cmd, args)
	},
}

// Execute runs the root command and exits non-zero on configuration errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}

func handleRootCommand(cmd *cobra.Command) (*RootDependencies, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("error getting current working directory: %w", err)
	}

	cfg, err := config.LoadConfigs(cmd.Root(), cwd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return nil, err
	}
	logger.Debugw("configuration loaded", "data_dir", cfg.DataDir, "seed", cfg.Seed, "config_file", config.ConfigFilePath(cwd))

	client := fetcher.NewClient(fetcher.Config{
		UserAgent:     cfg.UserAgent,
		Timeout:       cfg.HTTPTimeout,
		StreamTimeout: cfg.StreamTimeout,
		EntrezDelay:   cfg.EntrezDelay,
		EntrezBase:    cfg.Endpoints.Entrez,
		UniProtBase:   cfg.Endpoints.UniProt,
		RCSBBase:      cfg.Endpoints.RCSB,
	})

	coordinator, err := datasets.NewCoordinator(datasets.Options{
		Root:     cfg.DataDir,
		Seed:     cfg.Seed,
		TenXBase: cfg.Endpoints.TenX,
		Fetcher:  client,
		Out:      cmd.OutOrStdout(),
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	return &RootDependencies{Cwd: cwd, Config: cfg, Logger: logger, Coordinator: coordinator}, nil
}
