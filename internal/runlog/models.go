package runlog

import "time"

// Outcome classifies the handling of a single media file.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Run is one pipeline invocation.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Roots      []string  `json:"roots"`
	Recursive  bool      `json:"recursive"`
	Overwrite  bool      `json:"overwrite"`
	Created    int       `json:"created"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

// Finished reports whether the run has been closed out.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Total returns the number of recorded file results.
func (r Run) Total() int {
	return r.Created + r.Skipped + r.Failed
}

// FileResult is the outcome for one media file within a run.
type FileResult struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	Output    string    `json:"output,omitempty"`
	Status    Outcome   `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
