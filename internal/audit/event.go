package audit

import (
	"context"
	"time"
)

// Entities.
const (
	EntityUser     = "user"
	EntitySession  = "session"
	EntityFavorite = "favorite"
)

// Actions.
const (
	ActionRegistered = "registered"
	ActionUpdated    = "updated"
	ActionDeleted    = "deleted"
	ActionLogin      = "login"
	ActionAdded      = "added"
	ActionRemoved    = "removed"
)

// Outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Event is one account operation. It never carries credentials.
type Event struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
	UserID    string    `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	MovieID   string    `json:"movie_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Recorder receives account events.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// Nop discards events.
type Nop struct{}

// Record does nothing.
func (Nop) Record(context.Context, Event) {}

// Multi forwards each event to every recorder in order.
type Multi []Recorder

// Record stamps the event if needed and fans it out.
func (m Multi) Record(ctx context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	for _, r := range m {
		if r != nil {
			r.Record(ctx, e)
		}
	}
}
