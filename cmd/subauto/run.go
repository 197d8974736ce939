package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"subauto/internal/config"
	"subauto/internal/display"
	"subauto/internal/history"
	"subauto/internal/media"
	"subauto/internal/pipeline"
	"subauto/internal/session"
	"subauto/internal/transcribe"
	"subauto/internal/translate"
	"subauto/pkg/log"
)

// runBatch processes one validated batch end to end: dispatch, live
// progress, summary, history.
func runBatch(ctx context.Context, cfg *config.VideoConfig, whisperModel string, level log.LogLevel) error {
	keys, err := config.NewKeyStore()
	if err != nil {
		return err
	}
	apiKey, err := keys.APIKey()
	if err != nil {
		return err
	}

	sess, err := session.New()
	if err != nil {
		return err
	}
	mainLog, err := sess.MainLogger(level)
	if err != nil {
		return err
	}
	defer mainLog.Close()

	mainLog.Info("Session %s: %d videos, target language %s, API key %s",
		sess.ID, len(cfg.Videos), cfg.OutputLanguage, config.MaskAPIKey(apiKey))

	prog := display.NewProgress(os.Stdout, cfg.Videos)

	dispatcher := &pipeline.Dispatcher{
		Config:      cfg,
		Session:     sess,
		Transcriber: transcribe.NewWhisperCLI(whisperModel),
		Muxer:       media.NewFFmpeg(),
		NewTranslator: func() (translate.Translator, error) {
			client, err := translate.NewGeminiClient(apiKey)
			if err != nil {
				return nil, err
			}
			return translate.NewBatch(client, 0), nil
		},
		Renderer: prog,
		LogLevel: level,
	}

	prog.Start()
	summary, err := dispatcher.Run(ctx)
	prog.Stop()
	if err != nil {
		return err
	}

	fmt.Println(display.RenderSummary(summary, sess.LogDir()))

	if err := recordRun(ctx, sess, cfg, summary); err != nil {
		mainLog.Warn("Failed to record run history: %v", err)
	}

	mainLog.Info("Session %s finished: %d succeeded, %d failed",
		sess.ID, summary.Succeeded, summary.Failed)
	return nil
}

func recordRun(ctx context.Context, sess *session.Session, cfg *config.VideoConfig, summary *pipeline.Summary) error {
	path, err := historyPath()
	if err != nil {
		return err
	}
	store, err := history.NewStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	jobs := make([]history.JobRecord, 0, len(summary.Jobs))
	for _, job := range summary.Jobs {
		record := history.JobRecord{
			VideoPath:        job.VideoPath,
			Status:           history.StatusCompleted,
			DetectedLanguage: job.DetectedLanguage,
		}
		if job.Err != nil || job.Stage != pipeline.StageDone {
			record.Status = history.StatusFailed
			if job.Err != nil {
				record.Error = job.Err.Error()
			}
		}
		jobs = append(jobs, record)
	}

	run := history.RunRecord{
		SessionID:      sess.ID,
		StartedAt:      sess.StartedAt,
		FinishedAt:     time.Now(),
		InputLanguage:  cfg.InputLanguage,
		OutputLanguage: cfg.OutputLanguage,
		Total:          summary.Total,
		Succeeded:      summary.Succeeded,
		Failed:         summary.Failed,
	}
	return store.RecordRun(ctx, run, jobs)
}

func historyPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".subauto", "history.db"), nil
}
