package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"subauto/internal/config"
)

// SubtitleTrack pairs a subtitle file with its language code.
type SubtitleTrack struct {
	Language string
	Path     string
}

// Muxer embeds subtitle tracks into a media container.
type Muxer interface {
	Embed(ctx context.Context, videoPath string, tracks []SubtitleTrack, outputPath string) error
}

// FFmpeg is the production muxer, shelling out to the ffmpeg binary.
type FFmpeg struct {
	ffmpegCmd string
}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{ffmpegCmd: "ffmpeg"}
}

// Embed copies all existing streams from videoPath and adds both
// subtitle tracks as mov_text streams, tagging language and title
// metadata per track and marking the second (translated) track as the
// default.
func (f *FFmpeg) Embed(ctx context.Context, videoPath string, tracks []SubtitleTrack, outputPath string) error {
	if len(tracks) != 2 {
		return fmt.Errorf("expected exactly 2 subtitle tracks, got %d", len(tracks))
	}

	cmdPath, err := exec.LookPath(f.ffmpegCmd)
	if err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, cmdPath, embedArgs(videoPath, tracks, outputPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg mux failed: %w: %s", err, stderr.String())
	}
	return nil
}

func embedArgs(videoPath string, tracks []SubtitleTrack, outputPath string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
	}
	for _, track := range tracks {
		args = append(args, "-i", track.Path)
	}

	args = append(args,
		"-map", "0",
		"-map", "1",
		"-map", "2",
		"-c", "copy",
		"-c:s", "mov_text",
	)

	for i, track := range tracks {
		args = append(args,
			fmt.Sprintf("-metadata:s:s:%d", i), "language="+track.Language,
			fmt.Sprintf("-metadata:s:s:%d", i), "title="+trackTitle(track.Language),
		)
	}

	// The translated track plays by default.
	args = append(args, "-disposition:s:1", "default", outputPath)
	return args
}

// trackTitle resolves a language code to a display name, falling back
// to the raw code for anything unmappable.
func trackTitle(code string) string {
	name, err := config.LanguageName(code)
	if err != nil {
		return code
	}
	return name
}
