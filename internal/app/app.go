package app

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"wiki_stats/internal/config"
	"wiki_stats/internal/output"
	"wiki_stats/internal/stats"
)

// StatsApp computes corpus statistics for one archive and writes them out.
type StatsApp struct {
	config     *config.StatsConfig
	scheduler  *Scheduler
	serializer output.Serializer
	logger     *zap.Logger
}

func NewStatsApp(cfg *config.StatsConfig, logger *zap.Logger) (*StatsApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	skip := cfg.Logic.OnShardError == config.OnShardErrorSkip

	return &StatsApp{
		config:     cfg,
		scheduler:  NewScheduler(cfg.Workers(), skip, logger),
		serializer: output.NewSerializer(cfg.Output.Plain),
		logger:     logger.With(zap.String("component", "stats")),
	}, nil
}

// Run reads every shard, merges the statistics and only then creates the
// output file, so a failed run leaves no output behind.
func (s *StatsApp) Run(ctx context.Context) error {
	s.logger.Info("Starting corpus statistics",
		zap.String("archive", s.config.Input.Archive),
		zap.Int("workers", s.config.Workers()),
		zap.String("on_shard_error", s.config.Logic.OnShardError))

	r, err := zip.OpenReader(s.config.Input.Archive)
	if err != nil {
		return &stats.ShardError{Shard: s.config.Input.Archive, Kind: stats.ErrArchiveIO, Err: err}
	}
	defer r.Close()

	src := NewArchiveSource(&r.Reader, s.config.Input.ShardPrefix, s.config.Input.ShardExt)
	pkg, rep, err := s.scheduler.Run(ctx, src)
	if err != nil {
		return fmt.Errorf("process archive: %w", err)
	}

	if err := output.WriteFile(s.config.Output.Path, s.serializer, pkg); err != nil {
		return err
	}

	if s.config.Logic.Metrics {
		s.reportMetrics(pkg, rep)
	}
	s.logger.Info("Statistics written",
		zap.String("output", s.config.Output.Path),
		zap.Int("shards", rep.Shards),
		zap.Int("skipped", rep.Skipped))
	return nil
}

func (s *StatsApp) reportMetrics(pkg *stats.Package, rep Report) {
	s.logger.Info("Run metrics",
		zap.Int("shards", rep.Shards),
		zap.Int("skipped", rep.Skipped),
		zap.Int("batches", rep.Batches),
		zap.Uint64("articles", pkg.Articles),
		zap.Uint64("tokens", pkg.Tokens),
		zap.Int("distinct_words", len(pkg.Words.Written)),
		zap.Int("distinct_lower_words", len(pkg.Words.Lower)),
		zap.Duration("elapsed", rep.Elapsed))
}
