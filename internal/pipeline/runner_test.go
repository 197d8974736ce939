package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"subauto/internal/config"
	"subauto/internal/media"
	"subauto/internal/subtitle"
	"subauto/internal/transcribe"
	"subauto/internal/translate"
	"subauto/pkg/log"
)

type fakeTranscriber struct {
	language string
	err      error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _, _ string) (*transcribe.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &transcribe.Result{
		Language: f.language,
		Text:     "Hola mundo",
		Segments: []transcribe.Segment{
			{
				ID:    0,
				Start: 0.0,
				End:   1.0,
				Text:  " Hola mundo",
				Words: []transcribe.Word{
					{Word: "Hola", Start: 0.0, End: 0.5},
					{Word: "mundo", Start: 0.6, End: 1.0},
				},
			},
		},
	}, nil
}

type fakeTranslator struct {
	err error
}

func (f *fakeTranslator) Translate(_ context.Context, texts []string, _, _ string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = "t:" + text
	}
	return out, nil
}

type fakeMuxer struct {
	mu      sync.Mutex
	err     error
	videos  []string
	outputs []string
	tracks  [][]media.SubtitleTrack
}

func (f *fakeMuxer) Embed(_ context.Context, videoPath string, tracks []media.SubtitleTrack, outputPath string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos = append(f.videos, videoPath)
	f.outputs = append(f.outputs, outputPath)
	f.tracks = append(f.tracks, tracks)
	return nil
}

func testConfig(t *testing.T) *config.VideoConfig {
	t.Helper()
	return &config.VideoConfig{
		Directory:       t.TempDir(),
		OutputDirectory: t.TempDir(),
		OutputLanguage:  "en",
	}
}

func touchVideo(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("not a real video"), 0644))
	return path
}

func drain(ch chan ProgressEvent) []ProgressEvent {
	var events []ProgressEvent
	for event := range ch {
		events = append(events, event)
	}
	return events
}

func newTestRunner(cfg *config.VideoConfig, transcriber transcribe.Transcriber, translator translate.Translator, muxer media.Muxer) *Runner {
	return &Runner{
		Config:      cfg,
		Transcriber: transcriber,
		Translator:  translator,
		Muxer:       muxer,
		Logger:      log.NewLogger(log.LevelFatal),
	}
}

func TestRunner_FullPipeline(t *testing.T) {
	cfg := testConfig(t)
	video := touchVideo(t, cfg.Directory, "clip.mkv")
	muxer := &fakeMuxer{}

	runner := newTestRunner(cfg, &fakeTranscriber{language: "es"}, &fakeTranslator{}, muxer)

	job := &Job{VideoPath: video}
	events := make(chan ProgressEvent, eventBuffer)
	runner.Run(context.Background(), job, events)

	require.Equal(t, []ProgressEvent{
		{JobID: video, Stage: StageTranscribed},
		{JobID: video, Stage: StageSubtitled},
		{JobID: video, Stage: StageTranslated},
		{JobID: video, Stage: StageDone},
	}, drain(events))

	require.True(t, job.Terminal)
	require.NoError(t, job.Err)
	require.Equal(t, "es", job.DetectedLanguage)

	sourceSRT := filepath.Join(cfg.OutputDirectory, "clip - ES.srt")
	targetSRT := filepath.Join(cfg.OutputDirectory, "clip - EN.srt")
	require.FileExists(t, sourceSRT)
	require.FileExists(t, targetSRT)

	translated, err := subtitle.ReadFile(targetSRT)
	require.NoError(t, err)
	require.Equal(t, []string{"t:Hola mundo"}, translated.Texts())

	require.Equal(t, []string{video}, muxer.videos)
	require.Equal(t, []string{filepath.Join(cfg.OutputDirectory, "clip.mp4")}, muxer.outputs)
	require.Equal(t, []media.SubtitleTrack{
		{Language: "es", Path: sourceSRT},
		{Language: "en", Path: targetSRT},
	}, muxer.tracks[0])
}

func TestRunner_SameLanguageFailsBeforeStageOne(t *testing.T) {
	cfg := testConfig(t)
	video := touchVideo(t, cfg.Directory, "clip.mkv")

	runner := newTestRunner(cfg, &fakeTranscriber{language: "en"}, &fakeTranslator{}, &fakeMuxer{})

	job := &Job{VideoPath: video}
	events := make(chan ProgressEvent, eventBuffer)
	runner.Run(context.Background(), job, events)

	require.Equal(t, []ProgressEvent{{JobID: video, Stage: StageFailed}}, drain(events))

	var stageErr *StageError
	require.ErrorAs(t, job.Err, &stageErr)
	require.Equal(t, FailureSameLanguage, stageErr.Kind)
	require.Equal(t, StageInit, stageErr.Stage)
}

func TestRunner_CredentialFailureEmitsSentinel(t *testing.T) {
	cfg := testConfig(t)
	video := touchVideo(t, cfg.Directory, "clip.mkv")

	translator := &fakeTranslator{err: fmt.Errorf("backend rejected request: %w", translate.ErrInvalidCredential)}
	runner := newTestRunner(cfg, &fakeTranscriber{language: "es"}, translator, &fakeMuxer{})

	job := &Job{VideoPath: video}
	events := make(chan ProgressEvent, eventBuffer)
	runner.Run(context.Background(), job, events)

	require.Equal(t, []ProgressEvent{
		{JobID: video, Stage: StageTranscribed},
		{JobID: video, Stage: StageSubtitled},
		{JobID: CredentialSentinel, Stage: StageFailed},
	}, drain(events))

	var stageErr *StageError
	require.ErrorAs(t, job.Err, &stageErr)
	require.Equal(t, FailureCredential, stageErr.Kind)
}

func TestRunner_MuxFailure(t *testing.T) {
	cfg := testConfig(t)
	video := touchVideo(t, cfg.Directory, "clip.mkv")

	muxer := &fakeMuxer{err: errors.New("ffmpeg exploded")}
	runner := newTestRunner(cfg, &fakeTranscriber{language: "es"}, &fakeTranslator{}, muxer)

	job := &Job{VideoPath: video}
	events := make(chan ProgressEvent, eventBuffer)
	runner.Run(context.Background(), job, events)

	require.Equal(t, []ProgressEvent{
		{JobID: video, Stage: StageTranscribed},
		{JobID: video, Stage: StageSubtitled},
		{JobID: video, Stage: StageTranslated},
		{JobID: video, Stage: StageFailed},
	}, drain(events))

	var stageErr *StageError
	require.ErrorAs(t, job.Err, &stageErr)
	require.Equal(t, FailureMux, stageErr.Kind)
	require.Equal(t, StageTranslated, stageErr.Stage)
}

func TestRunner_TranscriptionFailure(t *testing.T) {
	cfg := testConfig(t)
	video := touchVideo(t, cfg.Directory, "clip.mkv")

	runner := newTestRunner(cfg, &fakeTranscriber{err: errors.New("whisper not installed")}, &fakeTranslator{}, &fakeMuxer{})

	job := &Job{VideoPath: video}
	events := make(chan ProgressEvent, eventBuffer)
	runner.Run(context.Background(), job, events)

	require.Equal(t, []ProgressEvent{{JobID: video, Stage: StageFailed}}, drain(events))
	require.True(t, job.Terminal)
}

func TestRunner_MirrorsNestedOutputPath(t *testing.T) {
	cfg := testConfig(t)
	nested := filepath.Join(cfg.Directory, "season1")
	require.NoError(t, os.MkdirAll(nested, 0755))
	video := touchVideo(t, nested, "e01.mkv")

	runner := newTestRunner(cfg, &fakeTranscriber{language: "es"}, &fakeTranslator{}, &fakeMuxer{})

	job := &Job{VideoPath: video}
	events := make(chan ProgressEvent, eventBuffer)
	runner.Run(context.Background(), job, events)

	require.NoError(t, job.Err)
	require.FileExists(t, filepath.Join(cfg.OutputDirectory, "season1", "e01 - ES.srt"))
	require.FileExists(t, filepath.Join(cfg.OutputDirectory, "season1", "e01 - EN.srt"))
}
