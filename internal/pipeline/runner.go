package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"subauto/internal/config"
	"subauto/internal/media"
	"subauto/internal/subtitle"
	"subauto/internal/transcribe"
	"subauto/internal/translate"
	"subauto/pkg/file"
	"subauto/pkg/log"
)

// Runner drives one job through the four pipeline stages:
// transcribe, synthesize subtitles, translate, mux. Collaborator
// handles are injected so tests can substitute fakes.
type Runner struct {
	Config      *config.VideoConfig
	Transcriber transcribe.Transcriber
	Translator  translate.Translator
	Muxer       media.Muxer
	Logger      *log.Logger
}

// Run executes the pipeline for job, reporting each stage transition
// on events. The runner is the channel's only writer and closes it
// when the job reaches a terminal state. A credential failure is
// reported as the run-wide sentinel instead of a per-job failure.
func (r *Runner) Run(ctx context.Context, job *Job, events chan<- ProgressEvent) {
	defer close(events)

	err := r.process(ctx, job, events)
	job.Terminal = true
	if err == nil {
		r.Logger.Info("Completed %s", job.VideoPath)
		return
	}

	job.Err = err
	r.Logger.Error("Job %s failed: %v", job.VideoPath, err)

	if translate.IsCredentialError(err) {
		events <- ProgressEvent{JobID: CredentialSentinel, Stage: StageFailed}
		return
	}
	events <- ProgressEvent{JobID: job.VideoPath, Stage: StageFailed}
}

func (r *Runner) process(ctx context.Context, job *Job, events chan<- ProgressEvent) error {
	r.Logger.Info("Transcribing %s", job.VideoPath)

	sctx, cancel := r.stageContext(ctx)
	result, err := r.Transcriber.Transcribe(sctx, job.VideoPath, r.Config.InputLanguage)
	cancel()
	if err != nil {
		return stageError(FailureTranscription, job.Stage, err)
	}
	if result.Language == r.Config.OutputLanguage {
		return stageError(FailureSameLanguage, job.Stage,
			fmt.Errorf("detected language %q equals the target language, nothing to translate", result.Language))
	}
	job.DetectedLanguage = result.Language
	job.advance(StageTranscribed, events)

	doc := subtitle.Layout(collectWords(result), result.Language)
	if len(doc.Segments) == 0 {
		return stageError(FailureTranscription, job.Stage,
			fmt.Errorf("no speech found in %s", job.VideoPath))
	}

	outDir, err := file.MirrorDir(r.Config.Directory, job.VideoPath, r.Config.OutputDirectory)
	if err != nil {
		return stageError(FailureIO, job.Stage, err)
	}
	sourceSRT := filepath.Join(outDir, subtitleName(job.VideoPath, result.Language))
	if err := subtitle.WriteFile(sourceSRT, doc); err != nil {
		return stageError(FailureIO, job.Stage, err)
	}
	job.advance(StageSubtitled, events)

	// Re-read the subtitle file rather than reusing the in-memory
	// document: parsing collapses multi-line cues to single lines,
	// which is what the translation backend expects.
	doc, err = subtitle.ReadFile(sourceSRT)
	if err != nil {
		return stageError(FailureIO, job.Stage, err)
	}

	r.Logger.Info("Translating %s (%s -> %s)", job.VideoPath, result.Language, r.Config.OutputLanguage)

	sctx, cancel = r.stageContext(ctx)
	translated, err := r.Translator.Translate(sctx, doc.Texts(), result.Language, r.Config.OutputLanguage)
	cancel()
	if err != nil {
		kind := FailureTranslation
		if translate.IsCredentialError(err) {
			kind = FailureCredential
		}
		return stageError(kind, job.Stage, err)
	}

	translatedDoc, err := doc.WithTexts(translated, r.Config.OutputLanguage)
	if err != nil {
		return stageError(FailureTranslation, job.Stage, err)
	}
	targetSRT := filepath.Join(outDir, subtitleName(job.VideoPath, r.Config.OutputLanguage))
	if err := subtitle.WriteFile(targetSRT, translatedDoc); err != nil {
		return stageError(FailureIO, job.Stage, err)
	}
	job.advance(StageTranslated, events)

	r.Logger.Info("Muxing %s", job.VideoPath)

	tracks := []media.SubtitleTrack{
		{Language: result.Language, Path: sourceSRT},
		{Language: r.Config.OutputLanguage, Path: targetSRT},
	}
	outputPath := filepath.Join(outDir, file.Stem(job.VideoPath)+".mp4")

	sctx, cancel = r.stageContext(ctx)
	err = r.Muxer.Embed(sctx, job.VideoPath, tracks, outputPath)
	cancel()
	if err != nil {
		return stageError(FailureMux, job.Stage, err)
	}
	job.advance(StageDone, events)

	return nil
}

// stageContext bounds one collaborator call. A zero timeout disables
// the bound but still propagates run-wide cancellation.
func (r *Runner) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Config.StageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Config.StageTimeout)
}

// subtitleName builds "<basename> - <LANG>.srt" with the language
// code upper-cased.
func subtitleName(videoPath, language string) string {
	return fmt.Sprintf("%s - %s.srt", file.Stem(videoPath), strings.ToUpper(language))
}

func collectWords(result *transcribe.Result) []subtitle.Word {
	var words []subtitle.Word
	for _, seg := range result.Segments {
		for _, w := range seg.Words {
			words = append(words, subtitle.Word{
				Start: secondsToDuration(w.Start),
				End:   secondsToDuration(w.End),
				Text:  w.Word,
			})
		}
	}
	return words
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
