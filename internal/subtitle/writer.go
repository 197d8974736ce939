package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile writes the document to path in SRT format, creating parent
// directories as needed.
func WriteFile(path string, doc *Document) error {
	if doc == nil || len(doc.Segments) == 0 {
		return fmt.Errorf("subtitle document is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	return Write(f, doc)
}

// Write renders the document as SRT blocks: index line, timing line,
// text, blank line.
func Write(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)

	for i, seg := range doc.Segments {
		start, err := FormatDurationTimestamp(seg.Start)
		if err != nil {
			return fmt.Errorf("segment %d start: %w", i+1, err)
		}
		end, err := FormatDurationTimestamp(seg.End)
		if err != nil {
			return fmt.Errorf("segment %d end: %w", i+1, err)
		}

		fmt.Fprintf(bw, "%d\n", i+1)
		fmt.Fprintf(bw, "%s --> %s\n", start, end)
		fmt.Fprintf(bw, "%s\n\n", seg.Text)
	}

	return bw.Flush()
}
