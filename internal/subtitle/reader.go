package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
)

var srtTimeRe = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2}),(\d{3}) --> (\d{2}):(\d{2}):(\d{2}),(\d{3})`)

// ReadFile reads an SRT subtitle file into a Document. Multi-line cue
// text is collapsed to a single space-joined line.
func ReadFile(path string) (*Document, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".srt") {
		return nil, fmt.Errorf("only SRT format subtitle files are supported: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses SRT content from r into a Document and detects its
// language from the cue text.
func Read(r io.Reader) (*Document, error) {
	var segments []Segment

	scanner := bufio.NewScanner(r)
	current := Segment{}
	state := "index" // possible values: "index", "time", "text"
	var textLines []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch state {
		case "index":
			if line == "" {
				continue
			}
			index, err := strconv.Atoi(line)
			if err != nil {
				continue // skip non-index lines
			}
			current.Index = index
			state = "time"

		case "time":
			if line == "" {
				continue
			}
			start, end, err := parseSRTTime(line)
			if err != nil {
				return nil, fmt.Errorf("failed to parse time: %w", err)
			}
			current.Start = start
			current.End = end
			state = "text"
			textLines = nil

		case "text":
			if line == "" {
				// cue text ends
				if len(textLines) > 0 {
					current.Text = strings.Join(textLines, " ")
					segments = append(segments, current)
					current = Segment{}
				}
				state = "index"
				textLines = nil
			} else {
				textLines = append(textLines, line)
			}
		}
	}

	// handle the last cue when the file has no trailing blank line
	if state == "text" && len(textLines) > 0 {
		current.Text = strings.Join(textLines, " ")
		segments = append(segments, current)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subtitle content: %w", err)
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("subtitle content has no valid segments")
	}

	return &Document{
		Segments: segments,
		Language: detectLanguage(segments),
	}, nil
}

// parseSRTTime parses an SRT timing line: 00:02:16,612 --> 00:02:19,376
func parseSRTTime(timeString string) (time.Duration, time.Duration, error) {
	matches := srtTimeRe.FindStringSubmatch(timeString)
	if len(matches) != 9 {
		return 0, 0, fmt.Errorf("invalid time format: %s", timeString)
	}

	parse := func(hours, minutes, seconds, milliseconds string) time.Duration {
		h, _ := strconv.Atoi(hours)
		m, _ := strconv.Atoi(minutes)
		s, _ := strconv.Atoi(seconds)
		ms, _ := strconv.Atoi(milliseconds)

		return time.Duration(h)*time.Hour +
			time.Duration(m)*time.Minute +
			time.Duration(s)*time.Second +
			time.Duration(ms)*time.Millisecond
	}

	start := parse(matches[1], matches[2], matches[3], matches[4])
	end := parse(matches[5], matches[6], matches[7], matches[8])
	return start, end, nil
}

// detectLanguage picks the most common language across cue texts
func detectLanguage(segments []Segment) string {
	langCounts := make(map[string]int)

	for _, seg := range segments {
		lang := whatlanggo.DetectLang(seg.Text).Iso6391()
		langCounts[lang]++
	}

	var topLang string
	var topCount int
	for lang, count := range langCounts {
		if count > topCount {
			topLang = lang
			topCount = count
		}
	}

	return topLang
}
