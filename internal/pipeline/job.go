package pipeline

// Stage is a job's position in the four-step pipeline. Stages advance
// strictly in order; StageFailed is terminal and reachable from any
// stage.
type Stage int

const (
	StageFailed      Stage = -1
	StageInit        Stage = 0
	StageTranscribed Stage = 1
	StageSubtitled   Stage = 2
	StageTranslated  Stage = 3
	StageDone        Stage = 4
)

// stagesPerJob is how many stage-equivalents one job contributes to
// the run's completion count.
const stagesPerJob = 4

// CredentialSentinel is the reserved job identifier broadcast when a
// worker hits an invalid-credential error. It targets the whole run,
// not one job.
const CredentialSentinel = "CREDENTIAL_ERROR"

// Label maps a completed stage to the phase the job is now in, as
// shown to the user.
func (s Stage) Label() string {
	switch {
	case s == StageFailed:
		return "Failed"
	case s >= StageDone:
		return "Completed"
	case s == StageTranscribed:
		return "Creating SRT"
	case s == StageSubtitled:
		return "Translating"
	case s == StageTranslated:
		return "Burning"
	default:
		return "Queued"
	}
}

// ProgressEvent is the only value crossing a job's channel: which job
// moved, and to which stage. A failure carries StageFailed; a fatal
// credential error carries CredentialSentinel as the job identifier.
type ProgressEvent struct {
	JobID string
	Stage Stage
}

// Job is one video's pipeline execution. It is mutated only by its
// own runner; once Terminal is set the job is immutable and owned by
// the aggregator for reporting.
type Job struct {
	VideoPath        string
	Stage            Stage
	DetectedLanguage string
	Err              error
	Terminal         bool
}

// advance records completion of a stage and reports it on the job's
// channel. The channel is buffered beyond the maximum events one job
// can emit, so this never blocks the worker.
func (j *Job) advance(stage Stage, events chan<- ProgressEvent) {
	j.Stage = stage
	events <- ProgressEvent{JobID: j.VideoPath, Stage: stage}
}
