// Package session analyses several profiling logs concurrently. Each log is
// an independent session with its own parser; records inside a session are
// still processed strictly in order.
package session

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"profstat/internal/cache"
	"profstat/internal/logging"
	"profstat/internal/profile"
	"profstat/internal/stats"
)

// Request describes a batch of sessions.
type Request struct {
	Paths []string
	// Jobs bounds the number of concurrent sessions; GOMAXPROCS when <= 0.
	Jobs int
	// KeepGoing records per-session failures in Result.Err instead of
	// aborting the whole batch.
	KeepGoing bool
	// Cache, when set, serves previously parsed logs.
	Cache    *cache.Cache
	Progress ProgressSink
}

// Result is the outcome of one session.
type Result struct {
	Path    string
	Profile *profile.Profile
	Stats   stats.Table
	Err     error
	Elapsed time.Duration
}

// Analyze parses and aggregates every path. Results keep the order of
// req.Paths. Without KeepGoing the first failure cancels the remaining
// sessions and is returned.
func Analyze(ctx context.Context, req Request) ([]Result, error) {
	progress := req.Progress
	if progress == nil {
		progress = nopSink{}
	}
	if len(req.Paths) == 0 {
		return nil, nil
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, path := range req.Paths {
		progress.OnEvent(Event{File: path, Status: StatusQueued})
	}

	// each goroutine writes only its own index
	results := make([]Result, len(req.Paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(req.Paths)))

	for i, path := range req.Paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res := run(gctx, path, req.Cache, progress)
			results[i] = res
			if res.Err != nil && !req.KeepGoing {
				return fmt.Errorf("%s: %w", path, res.Err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func run(ctx context.Context, path string, c *cache.Cache, progress ProgressSink) Result {
	log := logging.FromContext(ctx).With(logging.Path(path))
	started := time.Now()
	res := Result{Path: path}

	fail := func(stage Stage, err error) Result {
		res.Err = err
		res.Elapsed = time.Since(started)
		progress.OnEvent(Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: res.Elapsed})
		log.Debug("session failed", logging.Stage(string(stage)), logging.Error(err))
		return res
	}

	progress.OnEvent(Event{File: path, Stage: StageParse, Status: StatusWorking})
	prof, err := c.ParseFile(ctx, path)
	if err != nil {
		return fail(StageParse, err)
	}
	res.Profile = prof

	progress.OnEvent(Event{File: path, Stage: StageAggregate, Status: StatusWorking, Records: prof.Records, Elapsed: time.Since(started)})
	table, err := stats.Aggregate(prof.Labels)
	if err != nil {
		return fail(StageAggregate, err)
	}
	res.Stats = table
	res.Elapsed = time.Since(started)

	progress.OnEvent(Event{
		File:    path,
		Stage:   StageAggregate,
		Status:  StatusDone,
		Elapsed: res.Elapsed,
		Records: prof.Records,
		Labels:  len(table),
	})
	log.Debug("session done", logging.Labels(len(table)), logging.Duration(res.Elapsed))
	return res
}

// Combine merges the statistics of every successful session.
func Combine(results []Result) stats.Table {
	tables := make([]stats.Table, 0, len(results))
	for _, res := range results {
		if res.Err == nil && res.Stats != nil {
			tables = append(tables, res.Stats)
		}
	}
	return stats.Combine(tables...)
}
