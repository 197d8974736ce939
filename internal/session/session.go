package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"subauto/pkg/log"
)

const (
	sessionPrefix = "video_session_"

	// maxSessions is how many session log directories are retained.
	maxSessions = 5
)

// Session identifies one batch run. It is created once by main and
// passed explicitly to the dispatcher and every worker; there is no
// ambient global run state.
type Session struct {
	ID        string
	StartedAt time.Time

	logsRoot string
}

// New creates a session rooted at ~/.subauto/logs and prunes old
// session directories beyond the retention limit.
func New() (*Session, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return NewAt(filepath.Join(home, ".subauto", "logs"))
}

// NewAt creates a session under the given logs root.
func NewAt(logsRoot string) (*Session, error) {
	now := time.Now()
	shortID := uuid.NewString()[:8]

	s := &Session{
		ID:        fmt.Sprintf("%s%s_%s", sessionPrefix, now.Format("20060102_150405"), shortID),
		StartedAt: now,
		logsRoot:  logsRoot,
	}

	cleanOldSessions(logsRoot)

	if err := os.MkdirAll(s.LogDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create session log directory: %w", err)
	}
	return s, nil
}

// LogDir returns the per-run log directory.
func (s *Session) LogDir() string {
	return filepath.Join(s.logsRoot, s.ID)
}

// MainLogger opens the run-level log file.
func (s *Session) MainLogger(level log.LogLevel) (*log.FileLogger, error) {
	return log.NewFileLogger(filepath.Join(s.LogDir(), "main.log"), level)
}

// WorkerLogger opens the log file for one pool worker.
func (s *Session) WorkerLogger(worker int, level log.LogLevel) (*log.FileLogger, error) {
	return log.NewFileLogger(filepath.Join(s.LogDir(), fmt.Sprintf("worker_%d.log", worker)), level)
}

// cleanOldSessions keeps the most recent sessions and removes the
// rest. Failures here never block a run.
func cleanOldSessions(logsRoot string) {
	entries, err := os.ReadDir(logsRoot)
	if err != nil {
		return
	}

	var sessions []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), sessionPrefix) {
			sessions = append(sessions, entry.Name())
		}
	}

	// Session names sort chronologically thanks to the timestamp part.
	sort.Strings(sessions)

	for len(sessions) >= maxSessions {
		oldest := sessions[0]
		sessions = sessions[1:]
		if err := os.RemoveAll(filepath.Join(logsRoot, oldest)); err != nil {
			log.Error("Failed to delete old session %s: %v", oldest, err)
		}
	}
}
