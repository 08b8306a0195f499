package eventlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logAdapter "github.com/bft-labs/linehost/internal/adapters/log"
	"github.com/bft-labs/linehost/internal/domain"
)

func TestStore_DropsOldestWhenFull(t *testing.T) {
	s := NewStore(2)
	s.Append(domain.Event{Title: "a"})
	s.Append(domain.Event{Title: "b"})
	s.Append(domain.Event{Title: "c"})

	got := s.Snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Title)
	assert.Equal(t, "c", got[1].Title)
	assert.Equal(t, 2, s.Len())
}

func TestLog_RecordStampsTime(t *testing.T) {
	store := NewStore(0)
	l := New(store, logAdapter.NewNoopLogger())

	require.NoError(t, l.Record(context.Background(), domain.Event{Title: "startup complete", State: domain.StateDone}))

	entries := l.Entries().Snapshot()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Time.IsZero())
	assert.Equal(t, domain.StateDone, entries[0].State)
}

func TestLog_RecordCanceledContext(t *testing.T) {
	l := New(NewStore(0), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, l.Record(ctx, domain.Event{Title: "x"}), context.Canceled)
	assert.Equal(t, 0, l.Entries().Len())
}

func TestLog_NilStore(t *testing.T) {
	l := New(nil, nil)
	assert.Nil(t, l.Entries())
	assert.NoError(t, l.Record(context.Background(), domain.Event{Title: "x"}))
}
