package pipeline

import (
	"context"
	"time"
)

// pollInterval paces the aggregator's sweep when no channel had a
// pending event.
const pollInterval = 50 * time.Millisecond

// Renderer receives visible progress updates from the aggregator.
// Implementations must not block; they run on the aggregator's loop.
type Renderer interface {
	Update(job int, stage Stage)
}

// tracker is the aggregator's visible state for one job.
type tracker struct {
	stage    Stage
	label    string
	terminal bool
}

// aggregator is the single consumer of every job's progress channel.
// It round-robins across all open channels with non-blocking reads,
// so one slow job cannot starve progress updates for the others, and
// terminates once the batch has accumulated stagesPerJob events'
// worth of progress per job.
type aggregator struct {
	channels []chan ProgressEvent
	renderer Renderer
	cancel   context.CancelFunc

	trackers  []tracker
	open      []bool
	completed int
	succeeded int
	failed    int
}

func newAggregator(channels []chan ProgressEvent, renderer Renderer, cancel context.CancelFunc) *aggregator {
	agg := &aggregator{
		channels: channels,
		renderer: renderer,
		cancel:   cancel,
		trackers: make([]tracker, len(channels)),
		open:     make([]bool, len(channels)),
	}
	for i := range agg.open {
		agg.open[i] = true
		agg.trackers[i].label = StageInit.Label()
	}
	return agg
}

func (a *aggregator) run() {
	target := len(a.channels) * stagesPerJob

	for a.completed < target {
		progressed := false
		for i := range a.channels {
			if !a.open[i] {
				continue
			}
			select {
			case event, ok := <-a.channels[i]:
				if !ok {
					a.open[i] = false
					continue
				}
				progressed = true
				if a.handle(i, event) {
					return
				}
			default:
			}
		}
		if !progressed {
			time.Sleep(pollInterval)
		}
	}
}

// handle applies one event. It returns true when the run is over,
// which only happens on the fatal credential broadcast.
func (a *aggregator) handle(job int, event ProgressEvent) bool {
	if event.JobID == CredentialSentinel {
		a.open[job] = false
		a.failAll()
		return true
	}

	tr := &a.trackers[job]

	if event.Stage == StageFailed {
		// A failed job counts as having reached the cap.
		a.completed += stagesPerJob - int(tr.stage)
		tr.stage = StageFailed
		tr.label = StageFailed.Label()
		tr.terminal = true
		a.failed++
		a.open[job] = false
		a.render(job)
		return false
	}

	a.completed += int(event.Stage) - int(tr.stage)
	tr.stage = event.Stage
	tr.label = event.Stage.Label()
	if event.Stage >= StageDone {
		tr.terminal = true
		a.succeeded++
		a.open[job] = false
	}
	a.render(job)
	return false
}

// failAll marks every job failed in one update and cancels the run
// context so in-flight collaborator calls stop instead of burning
// pool capacity on jobs that can no longer succeed.
func (a *aggregator) failAll() {
	for i := range a.trackers {
		a.trackers[i].stage = StageFailed
		a.trackers[i].label = StageFailed.Label()
		a.trackers[i].terminal = true
		a.render(i)
	}
	a.succeeded = 0
	a.failed = len(a.trackers)
	a.completed = len(a.trackers) * stagesPerJob
	if a.cancel != nil {
		a.cancel()
	}
}

func (a *aggregator) render(job int) {
	if a.renderer != nil {
		a.renderer.Update(job, a.trackers[job].stage)
	}
}
