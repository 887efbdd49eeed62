package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"wiki_stats/internal/app"
	"wiki_stats/internal/config"
	"wiki_stats/internal/stats"
)

var (
	configPath string
	verbose    bool

	inputPath    string
	outputPath   string
	plain        bool
	metrics      bool
	workers      int
	onShardError string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wikistats",
	Short: "Word frequencies and longest articles of a zipped JSON corpus",
	Long: `wikistats reads every *.json shard of a zip archive, where each shard is a
JSON array of {"id","title","text"} articles, and writes:

  - case-sensitive and lowercase word frequency tables
  - the longest article (by text bytes) and the longest title

Shards are processed in bounded parallel batches. Any malformed shard aborts
the run before the output file is created, unless --on-shard-error=skip.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l.With(zap.String("run_id", uuid.NewString()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runStats,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "input zip archive")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "write plain text instead of JSON")
	rootCmd.Flags().BoolVar(&metrics, "metrics", false, "log run metrics")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "shards processed in parallel (0 = number of CPUs)")
	rootCmd.Flags().StringVar(&onShardError, "on-shard-error", "", "abort or skip when a shard fails")

	rootCmd.AddCommand(exportCmd)
}

// loadConfig reads --config when given and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (*config.StatsConfig, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input.Archive = inputPath
	}
	if flags.Changed("output") {
		cfg.Output.Path = outputPath
	}
	if flags.Changed("plain") {
		cfg.Output.Plain = plain
	}
	if flags.Changed("metrics") {
		cfg.Logic.Metrics = metrics
	}
	if flags.Changed("workers") {
		cfg.Logic.MaxConcurrentWorkers = workers
	}
	if flags.Changed("on-shard-error") {
		cfg.Logic.OnShardError = onShardError
	}
	return cfg, nil
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	statsApp, err := app.NewStatsApp(cfg, logger)
	if err != nil {
		return err
	}
	return statsApp.Run(cmd.Context())
}

// failureKind names the error class for the final log line.
func failureKind(err error) string {
	switch {
	case errors.Is(err, stats.ErrShardDecode):
		return "shard_decode"
	case errors.Is(err, stats.ErrArchiveIO):
		return "archive_io"
	case errors.Is(err, stats.ErrOutputIO):
		return "output_io"
	case errors.Is(err, stats.ErrWorkerFailure):
		return "worker_failure"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	return "unknown"
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if logger != nil {
			logger.Error("Run failed", zap.String("kind", failureKind(err)), zap.Error(err))
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
