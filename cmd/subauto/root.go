package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"subauto/internal/config"
	"subauto/pkg/icron"
	"subauto/pkg/log"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func newRootCommand() *cobra.Command {
	var (
		directory    string
		outputDir    string
		inputLang    string
		outputLang   string
		workers      int
		whisperModel string
		schedule     string
		logLevel     string
		stageTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:          "subauto",
		Short:        "Generate and embed translated subtitles for a directory of videos",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := &config.VideoConfig{
				Directory:       directory,
				OutputDirectory: outputDir,
				InputLanguage:   inputLang,
				OutputLanguage:  outputLang,
				Workers:         workers,
				StageTimeout:    stageTimeout,
			}

			level := log.ParseLevel(logLevel)
			log.InitLogger(level)

			if schedule == "" {
				if err := cfg.Validate(); err != nil {
					return err
				}
				return runBatch(ctx, cfg, whisperModel, level)
			}
			return runScheduled(ctx, cfg, schedule, whisperModel, level)
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", "", "Directory containing the videos to process (required)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory to write subtitles and muxed videos to (required)")
	cmd.Flags().StringVar(&inputLang, "input-language", "", "Spoken-language hint, e.g. es (auto-detected when omitted)")
	cmd.Flags().StringVar(&outputLang, "output-language", config.DefaultOutputLanguage, "Language to translate subtitles into")
	cmd.Flags().IntVarP(&workers, "workers", "w", config.DefaultWorkers, "Number of videos to process in parallel")
	cmd.Flags().StringVar(&whisperModel, "whisper-model", "", "Whisper model to transcribe with (default medium)")
	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron expression; keep running and process the directory on this schedule")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().DurationVar(&stageTimeout, "stage-timeout", config.DefaultStageTimeout, "Timeout for a single pipeline stage")
	_ = cmd.MarkFlagRequired("directory")
	_ = cmd.MarkFlagRequired("output-dir")

	cmd.AddCommand(newSetAPIKeyCommand())
	cmd.AddCommand(newHistoryCommand())
	return cmd
}

// runScheduled blocks forever, re-scanning and processing the input
// directory at every cron trigger. Only a signal or parent-context
// cancellation stops it.
func runScheduled(ctx context.Context, cfg *config.VideoConfig, expr, whisperModel string, level log.LogLevel) error {
	if err := icron.Validate(expr); err != nil {
		return err
	}

	for {
		next, err := icron.NextRun(expr, time.Now())
		if err != nil {
			return err
		}
		log.Info("Next run scheduled for %s", next.Format(time.RFC1123))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(next)):
		}

		// Re-validate each cycle so videos added since the last run
		// are picked up.
		run := *cfg
		if err := run.Validate(); err != nil {
			log.Warn("Skipping run: %v", err)
			continue
		}
		if err := runBatch(ctx, &run, whisperModel, level); err != nil {
			if ctx.Err() != nil {
				return err
			}
			log.Error("Run failed: %v", err)
		}
	}
}
