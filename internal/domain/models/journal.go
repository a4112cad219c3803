package models

import (
	"time"
)

type Outcome string

const (
	OutcomeReplied    Outcome = "replied"
	OutcomeNoOp       Outcome = "noop"
	OutcomeIgnored    Outcome = "ignored"
	OutcomeInputError Outcome = "input_error"
)

type JournalEntry struct {
	UpdateID   int64
	UserID     int64
	ChatID     int64
	Intent     string
	ModeBefore Mode
	ModeAfter  Mode
	Outcome    Outcome
	CreatedAt  time.Time
}

// UserStats хранит агрегат по пользователю, обновляемый вместе с каждой записью журнала.
type UserStats struct {
	UserID      int64
	EventsTotal int64
	LastIntent  string
	LastSeenAt  time.Time
}
