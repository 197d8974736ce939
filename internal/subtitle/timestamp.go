package subtitle

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrNegativeTimestamp is returned for timestamps before zero.
var ErrNegativeTimestamp = errors.New("timestamp must be non-negative")

// ErrInvalidTimestamp is returned for NaN or infinite input.
var ErrInvalidTimestamp = errors.New("timestamp must be a finite number")

// FormatTimestamp renders a duration in seconds as an SRT timestamp,
// HH:MM:SS,mmm with zero padding and three millisecond digits.
func FormatTimestamp(seconds float64) (string, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "", ErrInvalidTimestamp
	}
	if seconds < 0 {
		return "", ErrNegativeTimestamp
	}

	milliseconds := int64(math.Round(seconds * 1000))
	secs := milliseconds / 1000
	milliseconds %= 1000
	minutes := secs / 60
	secs %= 60
	hours := minutes / 60
	minutes %= 60

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, milliseconds), nil
}

// FormatDurationTimestamp renders a time.Duration as an SRT timestamp.
func FormatDurationTimestamp(d time.Duration) (string, error) {
	return FormatTimestamp(d.Seconds())
}
