package display

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/mattn/go-isatty"

	"subauto/internal/pipeline"
)

// Progress renders live per-video pipeline progress. On a terminal it
// drives one go-pretty tracker per video; anywhere else it degrades
// to plain line output so logs stay readable.
type Progress struct {
	out      io.Writer
	plain    bool
	names    []string
	pw       progress.Writer
	trackers []*progress.Tracker
}

// NewProgress builds a renderer for the given batch. Video names are
// shortened to their base name for display.
func NewProgress(out io.Writer, videos []string) *Progress {
	names := make([]string, len(videos))
	for i, video := range videos {
		names[i] = filepath.Base(video)
	}

	p := &Progress{
		out:   out,
		plain: !isTerminal(out),
		names: names,
	}
	if p.plain {
		return p
	}

	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(false)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.Style().Visibility.ETA = false
	pw.Style().Visibility.Time = false

	p.pw = pw
	p.trackers = make([]*progress.Tracker, len(videos))
	for i, name := range names {
		tracker := &progress.Tracker{
			Message: trackerMessage(name, pipeline.StageInit.Label()),
			Total:   4,
		}
		p.trackers[i] = tracker
		pw.AppendTracker(tracker)
	}
	return p
}

// Start begins rendering. A no-op in plain mode.
func (p *Progress) Start() {
	if !p.plain {
		go p.pw.Render()
	}
}

// Update implements pipeline.Renderer.
func (p *Progress) Update(job int, stage pipeline.Stage) {
	if job < 0 || job >= len(p.names) {
		return
	}

	if p.plain {
		fmt.Fprintf(p.out, "%s: %s\n", p.names[job], stage.Label())
		return
	}

	tracker := p.trackers[job]
	tracker.UpdateMessage(trackerMessage(p.names[job], stage.Label()))
	if stage == pipeline.StageFailed {
		tracker.MarkAsErrored()
		return
	}
	tracker.SetValue(int64(stage))
}

// Stop ends rendering once the batch is over.
func (p *Progress) Stop() {
	if !p.plain {
		p.pw.Stop()
	}
}

func trackerMessage(name, label string) string {
	return fmt.Sprintf("%-30s %s", name, label)
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
