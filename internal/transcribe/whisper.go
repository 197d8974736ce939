package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"subauto/pkg/file"
)

// DefaultModel is the whisper model used when none is configured.
const DefaultModel = "medium"

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// execRunner executes commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stderr.String(), fmt.Errorf("%s exited with code %d: %w", name, exitErr.ExitCode(), err)
		}
		return stderr.String(), err
	}
	return stderr.String(), nil
}

// WhisperCLI shells out to the whisper command line tool, asking for a
// JSON artifact with word timestamps and native progress output off.
type WhisperCLI struct {
	whisperPath string
	model       string
	runner      commandRunner
	mkdirTemp   func(dir, pattern string) (string, error)
}

// NewWhisperCLI constructs the production transcriber.
func NewWhisperCLI(model string) *WhisperCLI {
	if model == "" {
		model = DefaultModel
	}
	return &WhisperCLI{
		whisperPath: "whisper",
		model:       model,
		runner:      execRunner{},
		mkdirTemp:   os.MkdirTemp,
	}
}

// Transcribe runs whisper on audioPath and parses its JSON output.
func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath, languageHint string) (*Result, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("cannot access input media %s: %w", audioPath, err)
	}

	outDir, err := w.mkdirTemp("", "subauto-whisper-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create transcription workspace: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := buildWhisperArgs(audioPath, w.model, outDir, languageHint)
	if _, err := w.runner.Run(ctx, w.whisperPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcription failed: %w", err)
	}

	artifact := filepath.Join(outDir, file.Stem(audioPath)+".json")
	data, err := os.ReadFile(artifact)
	if err != nil {
		return nil, fmt.Errorf("whisper completed but JSON artifact is missing: %w", err)
	}

	return parseWhisperOutput(data)
}

// parseWhisperOutput decodes the whisper JSON artifact into a Result.
func parseWhisperOutput(data []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse whisper output: %w", err)
	}
	if result.Language == "" {
		return nil, fmt.Errorf("whisper output is missing the detected language")
	}
	if len(result.Segments) == 0 {
		return nil, fmt.Errorf("whisper output has no segments")
	}
	return &result, nil
}

// buildWhisperArgs builds the whisper CLI invocation: JSON artifact,
// word timestamps on, fp16 off, native progress output disabled.
func buildWhisperArgs(audioPath, model, outDir, languageHint string) []string {
	args := []string{
		audioPath,
		"--model", model,
		"--output_format", "json",
		"--output_dir", outDir,
		"--word_timestamps", "True",
		"--fp16", "False",
		"--verbose", "None",
	}
	if languageHint != "" {
		args = append(args, "--language", languageHint)
	}
	return args
}
