package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"subauto/internal/config"
	"subauto/internal/media"
	"subauto/internal/session"
	"subauto/internal/transcribe"
	"subauto/internal/translate"
	"subauto/pkg/log"
)

// eventBuffer is the capacity of each job's progress channel. One job
// emits at most five events (four stages, or fewer plus a failure),
// so the buffer guarantees workers never block on a send even after
// the aggregator has stopped reading.
const eventBuffer = 8

// TranslatorFactory builds a translation client. Each worker calls it
// once so credential and HTTP client state stays worker-local.
type TranslatorFactory func() (translate.Translator, error)

// Summary is the aggregate result of one batch run. Jobs holds the
// final per-job state for reporting and history.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
	Jobs      []*Job
}

// Dispatcher fans a validated batch of videos out across a bounded
// worker pool and collects progress through the aggregator.
type Dispatcher struct {
	Config        *config.VideoConfig
	Session       *session.Session
	Transcriber   transcribe.Transcriber
	Muxer         media.Muxer
	NewTranslator TranslatorFactory
	Renderer      Renderer // optional
	LogLevel      log.LogLevel

	hostParallelism int // overridden in tests, defaults to runtime.NumCPU
}

// workerCount sizes the pool from the requested count and host
// parallelism, leaving one CPU free when the request exceeds the
// host, and never exceeding the number of videos. Always at least 1.
func workerCount(videos, requested, hostParallelism int) int {
	var workers int
	if requested < hostParallelism {
		workers = min(videos, requested)
	} else {
		workers = min(videos, hostParallelism-1)
	}
	return max(workers, 1)
}

func (d *Dispatcher) parallelism() int {
	if d.hostParallelism > 0 {
		return d.hostParallelism
	}
	return runtime.NumCPU()
}

// Run schedules one pipeline execution per video onto the pool,
// drains progress until every job is terminal, joins the pool, and
// returns the run summary. Submission is fire-and-forget; only the
// aggregator observes per-job completion.
func (d *Dispatcher) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()
	videos := d.Config.Videos
	workers := workerCount(len(videos), d.Config.Workers, d.parallelism())

	log.Info("Dispatching %d videos across %d workers", len(videos), workers)

	jobs := make([]*Job, len(videos))
	channels := make([]chan ProgressEvent, len(videos))
	for i, video := range videos {
		jobs[i] = &Job{VideoPath: video, Stage: StageInit}
		channels[i] = make(chan ProgressEvent, eventBuffer)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan int, len(videos))
	for i := range videos {
		queue <- i
	}
	close(queue)

	var group errgroup.Group
	for worker := 1; worker <= workers; worker++ {
		group.Go(func() error {
			return d.runWorker(ctx, worker, queue, jobs, channels)
		})
	}

	agg := newAggregator(channels, d.Renderer, cancel)
	agg.run()

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &Summary{
		Total:     len(videos),
		Succeeded: agg.succeeded,
		Failed:    agg.failed,
		Elapsed:   time.Since(started),
		Jobs:      jobs,
	}, nil
}

// runWorker pulls job indexes from the shared queue until it drains.
// Worker-local state (log file, translation client) is built here so
// nothing is shared across workers. If setup fails the worker still
// drains its share of the queue, failing each job, so the aggregator
// never waits on jobs that will not run.
func (d *Dispatcher) runWorker(ctx context.Context, worker int, queue <-chan int, jobs []*Job, channels []chan ProgressEvent) error {
	logger, err := d.Session.WorkerLogger(worker, d.LogLevel)
	if err != nil {
		d.failQueued(queue, jobs, channels, err)
		return fmt.Errorf("worker %d: %w", worker, err)
	}
	defer logger.Close()

	translator, err := d.NewTranslator()
	if err != nil {
		d.failQueued(queue, jobs, channels, err)
		return fmt.Errorf("worker %d: %w", worker, err)
	}

	runner := &Runner{
		Config:      d.Config,
		Transcriber: d.Transcriber,
		Translator:  translator,
		Muxer:       d.Muxer,
		Logger:      logger.Logger,
	}

	logger.Info("Worker %d started", worker)
	for idx := range queue {
		runner.Run(ctx, jobs[idx], channels[idx])
	}
	logger.Info("Worker %d finished", worker)
	return nil
}

func (d *Dispatcher) failQueued(queue <-chan int, jobs []*Job, channels []chan ProgressEvent, err error) {
	for idx := range queue {
		jobs[idx].Err = err
		jobs[idx].Terminal = true
		channels[idx] <- ProgressEvent{JobID: jobs[idx].VideoPath, Stage: StageFailed}
		close(channels[idx])
	}
}
