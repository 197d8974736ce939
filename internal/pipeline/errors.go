package pipeline

import "fmt"

// FailureKind classifies why a job failed. Every kind except
// FailureCredential is local to one job; a credential failure dooms
// the whole run.
type FailureKind int

const (
	FailureTranscription FailureKind = iota
	FailureSameLanguage
	FailureTranslation
	FailureMux
	FailureCredential
	FailureIO
)

func (k FailureKind) String() string {
	switch k {
	case FailureTranscription:
		return "transcription"
	case FailureSameLanguage:
		return "same language"
	case FailureTranslation:
		return "translation"
	case FailureMux:
		return "mux"
	case FailureCredential:
		return "credential"
	case FailureIO:
		return "io"
	default:
		return "unknown"
	}
}

// StageError records a job failure together with the last stage the
// job completed before failing.
type StageError struct {
	Kind  FailureKind
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s error after stage %d: %v", e.Kind, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(kind FailureKind, stage Stage, err error) *StageError {
	return &StageError{Kind: kind, Stage: stage, Err: err}
}
