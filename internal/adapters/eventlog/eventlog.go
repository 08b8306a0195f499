// Package eventlog implements the operator-visible event log: a bounded
// in-memory entry store mirrored to the structured logger.
package eventlog

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/linehost/internal/domain"
	"github.com/bft-labs/linehost/internal/ports"
)

// DefaultCapacity is the number of entries kept when no capacity is given.
const DefaultCapacity = 500

// Store is a bounded, concurrency-safe ring of events. When full, the
// oldest entry is dropped.
type Store struct {
	mu      sync.Mutex
	entries []domain.Event
	max     int
}

// NewStore creates a store holding at most capacity entries.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{max: capacity}
}

// Append adds an event.
func (s *Store) Append(e domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == s.max {
		copy(s.entries, s.entries[1:])
		s.entries = s.entries[:len(s.entries)-1]
	}
	s.entries = append(s.entries, e)
}

// Snapshot returns a copy of the stored events, oldest first.
func (s *Store) Snapshot() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Event{}, s.entries...)
}

// Len returns the number of stored events.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Log records events into a Store and mirrors them to a logger.
type Log struct {
	store  ports.EntryStore
	logger ports.Logger
	now    func() time.Time
}

// New creates an event log. A nil store leaves the log without an entry
// store, which startup validation reports as a missing field.
func New(store ports.EntryStore, logger ports.Logger) *Log {
	return &Log{store: store, logger: logger, now: time.Now}
}

// Record writes the event to the store and the logger.
func (l *Log) Record(ctx context.Context, e domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.Time.IsZero() {
		e.Time = l.now()
	}
	if l.store != nil {
		l.store.Append(e)
	}
	if l.logger != nil {
		fields := []ports.Field{
			ports.String("origin", e.Origin),
			ports.String("state", e.State.String()),
		}
		switch e.State {
		case domain.StateError:
			l.logger.Error(e.Title, fields...)
		case domain.StateWarning:
			l.logger.Warn(e.Title, fields...)
		default:
			l.logger.Info(e.Title, fields...)
		}
	}
	return nil
}

// Entries returns the backing entry store.
func (l *Log) Entries() ports.EntryStore {
	return l.store
}
