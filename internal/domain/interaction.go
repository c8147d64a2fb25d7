package domain

import (
	"fmt"
	"time"
)

// DateFormat is the calendar date layout used in the Q&A log.
const DateFormat = "2006-01-02"

// QAInteraction is one append-only record of a completed question/answer
// exchange. Records are created exactly once per orchestration and never
// mutated or deleted.
type QAInteraction struct {
	AskedOn time.Time
	Query   string
	Answer  string
}

// NewQAInteraction creates a new QAInteraction instance
func NewQAInteraction(askedOn time.Time, query, answer string) *QAInteraction {
	return &QAInteraction{
		AskedOn: askedOn,
		Query:   query,
		Answer:  answer,
	}
}

// DateString returns the asked-on date in YYYY-MM-DD form, matching the
// log table schema.
func (q *QAInteraction) DateString() string {
	return q.AskedOn.Format(DateFormat)
}

// ValidateQAInteraction validates a QAInteraction instance
func ValidateQAInteraction(q *QAInteraction) error {
	if q == nil {
		return fmt.Errorf("interaction cannot be nil")
	}

	if q.AskedOn.IsZero() {
		return fmt.Errorf("interaction AskedOn is required")
	}

	if q.Query == "" {
		return fmt.Errorf("interaction Query is required")
	}

	return nil
}
