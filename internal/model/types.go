package model

import "time"

// Utterance is a raw command as received from the transport layer.
// Immutable once received.
type Utterance struct {
	UserID     string    `json:"userId"`
	Raw        string    `json:"raw"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// SessionEntry is one query/response pair in the per-user session log.
// Entries are append-only and never mutated.
type SessionEntry struct {
	UserID    string    `json:"userId"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// Reminder is a persisted one-shot reminder. DueDisplay is the
// human-readable rendering stored in the database (e.g.
// "03:00 PM on June 01, 2025"); it must stay round-trippable through
// nlp.ParseTime so reload can re-arm timers after a restart.
type Reminder struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Task       string    `json:"task"`
	DueDisplay string    `json:"reminderTime"`
	CreatedAt  time.Time `json:"createdAt"`
}
