package ports

import (
	"context"

	"github.com/bft-labs/linehost/internal/domain"
)

// EntryStore holds the event records shown to the operator.
type EntryStore interface {
	Append(e domain.Event)
	Snapshot() []domain.Event
	Len() int
}

// EventLog is the operator-visible logging sink.
type EventLog interface {
	// Record writes an event. Callers treat failures as non-fatal.
	Record(ctx context.Context, e domain.Event) error

	// Entries returns the backing entry store, or nil if none is attached.
	Entries() EntryStore
}

// ViewModel is the model bound to the main window.
type ViewModel interface {
	Title() string
	SetTitle(title string)

	// EventLog returns the log sink, or nil if none is attached.
	EventLog() EventLog
}
