package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wiki_stats/internal/stats"
)

type processFunc func(raw []byte, label string) (*stats.Package, error)

// Report summarizes one scheduler run.
type Report struct {
	Shards  int
	Skipped int
	Batches int
	Elapsed time.Duration
}

// Scheduler fans shards out to at most workers goroutines at a time. Shards
// are grouped into batches; a batch is launched, joined as a whole, and its
// packages are merged in launch order before the next batch is read. Only
// the goroutine calling Run touches the accumulator and the source.
type Scheduler struct {
	workers    int
	skipFailed bool
	process    processFunc
	logger     *zap.Logger
}

func NewScheduler(workers int, skipFailed bool, logger *zap.Logger) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{
		workers:    workers,
		skipFailed: skipFailed,
		process:    stats.ProcessShard,
		logger:     logger.With(zap.String("component", "scheduler")),
	}
}

// Run drains src and returns the merged statistics. ctx is checked between
// reads; a batch already launched always runs to completion.
func (s *Scheduler) Run(ctx context.Context, src ShardSource) (*stats.Package, Report, error) {
	start := time.Now()
	acc := stats.NewPackage()
	var rep Report

	batch := make([]Shard, 0, s.workers)
	flush := func() error {
		err := s.runBatch(acc, batch, &rep)
		clear(batch)
		batch = batch[:0]
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, rep, err
		}
		sh, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rep, err
		}

		batch = append(batch, sh)
		if len(batch) == s.workers {
			if err := flush(); err != nil {
				return nil, rep, err
			}
		}
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return nil, rep, err
		}
	}

	rep.Elapsed = time.Since(start)
	return acc, rep, nil
}

func (s *Scheduler) runBatch(acc *stats.Package, batch []Shard, rep *Report) error {
	rep.Batches++
	results := make([]*stats.Package, len(batch))
	errs := make([]error, len(batch))

	var g errgroup.Group
	for i, sh := range batch {
		i, sh := i, sh
		g.Go(func() error {
			results[i], errs[i] = s.work(sh)
			return errs[i]
		})
	}
	if err := g.Wait(); err != nil && !s.skipFailed {
		return err
	}

	for i, sh := range batch {
		if errs[i] != nil {
			s.logger.Warn("Skipping shard", zap.String("shard", sh.Name), zap.Error(errs[i]))
			rep.Skipped++
			continue
		}
		acc.Merge(results[i])
		rep.Shards++
	}

	s.logger.Debug("Batch merged",
		zap.Int("batch", rep.Batches),
		zap.Int("size", len(batch)),
		zap.Int("shards_total", rep.Shards))
	return nil
}

// work runs the processor on one shard, turning a panic into ErrWorkerFailure.
func (s *Scheduler) work(sh Shard) (pkg *stats.Package, err error) {
	defer func() {
		if r := recover(); r != nil {
			pkg = nil
			err = &stats.ShardError{Shard: sh.Name, Kind: stats.ErrWorkerFailure, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return s.process(sh.Data, sh.Name)
}
