package ledger

import "time"

// Outcome classifies how an item's processing ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeSkipped Outcome = "skipped"
)

// Valid reports whether the outcome is one of the known labels.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSuccess, OutcomeFailure, OutcomeSkipped:
		return true
	}
	return false
}

// OutcomeForError maps an item's terminal error to a ledger outcome.
func OutcomeForError(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

// ProcessingRecord is one completed item: which file, identified by path
// plus content signature, what happened to it, and under which run.
type ProcessingRecord struct {
	ID               int64
	MediaPath        string
	ContentSignature string
	Outcome          Outcome
	CompletedAt      time.Time
	ZonesApplied     int
	ErrorDetail      string
	RunID            string
}

// Stats aggregates record counts by outcome.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
}
