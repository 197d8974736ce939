package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	stages map[int][]Stage
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{stages: make(map[int][]Stage)}
}

func (r *recordingRenderer) Update(job int, stage Stage) {
	r.stages[job] = append(r.stages[job], stage)
}

func feed(ch chan ProgressEvent, jobID string, stages ...Stage) {
	for _, stage := range stages {
		ch <- ProgressEvent{JobID: jobID, Stage: stage}
	}
	close(ch)
}

func TestAggregator_NormalProgression(t *testing.T) {
	channels := []chan ProgressEvent{
		make(chan ProgressEvent, eventBuffer),
		make(chan ProgressEvent, eventBuffer),
	}
	feed(channels[0], "a.mkv", StageTranscribed, StageSubtitled, StageTranslated, StageDone)
	feed(channels[1], "b.mkv", StageTranscribed, StageFailed)

	renderer := newRecordingRenderer()
	agg := newAggregator(channels, renderer, nil)
	agg.run()

	require.Equal(t, 1, agg.succeeded)
	require.Equal(t, 1, agg.failed)
	require.Equal(t, len(channels)*stagesPerJob, agg.completed)

	require.True(t, agg.trackers[0].terminal)
	require.Equal(t, StageDone, agg.trackers[0].stage)
	require.Equal(t, "Completed", agg.trackers[0].label)

	require.True(t, agg.trackers[1].terminal)
	require.Equal(t, StageFailed, agg.trackers[1].stage)
	require.Equal(t, "Failed", agg.trackers[1].label)

	require.Equal(t, []Stage{StageTranscribed, StageSubtitled, StageTranslated, StageDone}, renderer.stages[0])
	require.Equal(t, []Stage{StageTranscribed, StageFailed}, renderer.stages[1])
}

func TestAggregator_CredentialSentinelFailsEveryJob(t *testing.T) {
	channels := []chan ProgressEvent{
		make(chan ProgressEvent, eventBuffer),
		make(chan ProgressEvent, eventBuffer),
		make(chan ProgressEvent, eventBuffer),
	}
	// Job 0 is already deep into the pipeline when job 1 hits the
	// credential wall. Job 2 has not started. Channels 0 and 2 stay
	// open: the broadcast must end the run regardless.
	channels[0] <- ProgressEvent{JobID: "a.mkv", Stage: StageTranscribed}
	channels[0] <- ProgressEvent{JobID: "a.mkv", Stage: StageSubtitled}
	channels[0] <- ProgressEvent{JobID: "a.mkv", Stage: StageTranslated}
	channels[1] <- ProgressEvent{JobID: "b.mkv", Stage: StageTranscribed}
	channels[1] <- ProgressEvent{JobID: CredentialSentinel, Stage: StageFailed}

	cancelled := false
	agg := newAggregator(channels, nil, func() { cancelled = true })
	agg.run()

	require.Equal(t, 3, agg.failed)
	require.Equal(t, 0, agg.succeeded)
	require.Equal(t, len(channels)*stagesPerJob, agg.completed)
	require.True(t, cancelled)

	for i := range agg.trackers {
		require.True(t, agg.trackers[i].terminal, "job %d not terminal", i)
		require.Equal(t, StageFailed, agg.trackers[i].stage, "job %d not failed", i)
	}
}

func TestAggregator_ImmediateFailuresCountAsFullProgress(t *testing.T) {
	channels := []chan ProgressEvent{
		make(chan ProgressEvent, eventBuffer),
		make(chan ProgressEvent, eventBuffer),
	}
	feed(channels[0], "a.mkv", StageFailed)
	feed(channels[1], "b.mkv", StageFailed)

	agg := newAggregator(channels, nil, nil)
	agg.run()

	require.Equal(t, 2, agg.failed)
	require.Equal(t, 0, agg.succeeded)
	require.Equal(t, len(channels)*stagesPerJob, agg.completed)
}

func TestStageLabels(t *testing.T) {
	require.Equal(t, "Queued", StageInit.Label())
	require.Equal(t, "Creating SRT", StageTranscribed.Label())
	require.Equal(t, "Translating", StageSubtitled.Label())
	require.Equal(t, "Burning", StageTranslated.Label())
	require.Equal(t, "Completed", StageDone.Label())
	require.Equal(t, "Completed", Stage(7).Label())
	require.Equal(t, "Failed", StageFailed.Label())
}
