package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Defaults for run parameters not given on the command line.
const (
	DefaultOutputLanguage = "en"
	DefaultWorkers        = 2
	DefaultStageTimeout   = 30 * time.Minute
)

// DefaultVideoExtensions are the recognized video file suffixes.
var DefaultVideoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mkv": true,
	".mov": true,
}

// VideoConfig holds the run-wide parameters for one batch. It is
// immutable after Validate succeeds.
type VideoConfig struct {
	Directory       string
	OutputDirectory string
	InputLanguage   string // optional source-language hint
	OutputLanguage  string
	Workers         int
	VideoExtensions map[string]bool
	Videos          []string // resolved by Validate

	// StageTimeout bounds each collaborator call (transcribe, one
	// translation chunk, mux). Zero disables the bound.
	StageTimeout time.Duration
}

// Validate checks every run parameter, resolves the video list, and
// fills in defaults. After a nil return the config is ready for the
// dispatcher.
func (c *VideoConfig) Validate() error {
	if c.Directory == "" {
		return fmt.Errorf("input directory is required")
	}
	if info, err := os.Stat(c.Directory); err != nil || !info.IsDir() {
		return fmt.Errorf("input directory %q does not exist or is not a directory", c.Directory)
	}

	if c.OutputDirectory == "" {
		return fmt.Errorf("output directory is required")
	}
	if info, err := os.Stat(c.OutputDirectory); err != nil || !info.IsDir() {
		return fmt.Errorf("output directory %q does not exist or is not a directory", c.OutputDirectory)
	}

	if c.OutputLanguage == "" {
		c.OutputLanguage = DefaultOutputLanguage
	}
	if !IsSupportedLanguage(c.OutputLanguage) {
		return fmt.Errorf("invalid output language %q (supported: %s)",
			c.OutputLanguage, strings.Join(SupportedLanguages(), ", "))
	}

	if c.InputLanguage != "" {
		if !IsSupportedLanguage(c.InputLanguage) {
			return fmt.Errorf("invalid input language %q (supported: %s)",
				c.InputLanguage, strings.Join(SupportedLanguages(), ", "))
		}
		if c.InputLanguage == c.OutputLanguage {
			return fmt.Errorf("output language %q cannot be the same as the input language", c.OutputLanguage)
		}
	}

	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.Workers < 1 {
		return fmt.Errorf("there must be at least one worker, got %d", c.Workers)
	}

	if c.StageTimeout == 0 {
		c.StageTimeout = DefaultStageTimeout
	}

	if len(c.VideoExtensions) == 0 {
		c.VideoExtensions = DefaultVideoExtensions
	}

	videos, err := c.FindVideos()
	if err != nil {
		return fmt.Errorf("failed to scan input directory: %w", err)
	}
	if len(videos) == 0 {
		return fmt.Errorf("no videos found in the input directory %q", c.Directory)
	}
	c.Videos = videos

	return nil
}

// FindVideos walks the input directory and returns every file with a
// recognized video extension, sorted for deterministic scheduling.
func (c *VideoConfig) FindVideos() ([]string, error) {
	extensions := c.VideoExtensions
	if len(extensions) == 0 {
		extensions = DefaultVideoExtensions
	}

	var videos []string
	err := filepath.WalkDir(c.Directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if extensions[strings.ToLower(filepath.Ext(path))] {
			videos = append(videos, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(videos)
	return videos, nil
}
