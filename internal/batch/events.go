package batch

// Event is the sealed set of notifications emitted on a job's event channel.
// The channel carries, in order: a Progress event before and after each file,
// exactly one FileResult per input in between, any number of FileProgress
// events while a file converts, and a single terminal JobFinished.
type Event interface {
	isEvent()
}

// Progress reports batch position: how many files have finished out of the
// total, and which file the report refers to.
type Progress struct {
	Completed   int
	Total       int
	CurrentFile string
}

// FileProgress streams extraction progress for the file being converted.
type FileProgress struct {
	InputPath string
	Percent   float64
	Message   string
}

// ResultKind classifies the outcome of one input file.
type ResultKind string

const (
	ResultSucceeded ResultKind = "succeeded"
	ResultFailed    ResultKind = "failed"
	ResultSkipped   ResultKind = "skipped"
)

// FileResult is the terminal event for one input file. OutputPath is set only
// for succeeded results; Reason only for failed and skipped ones.
type FileResult struct {
	Kind       ResultKind
	InputPath  string
	OutputPath string
	Reason     string
}

// Outcome classifies how a job ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// JobFinished is the last event on the channel. Err is set only for failed
// outcomes and describes the unrecoverable condition that stopped the batch.
type JobFinished struct {
	Outcome Outcome
	Err     error
}

func (Progress) isEvent()     {}
func (FileProgress) isEvent() {}
func (FileResult) isEvent()   {}
func (JobFinished) isEvent()  {}
