package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logAdapter "github.com/bft-labs/linehost/internal/adapters/log"
)

func newPool(t *testing.T) *Pool {
	t.Helper()
	p, err := New(2, logAdapter.NewNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Release(time.Second) })
	return p
}

func TestPool_Do(t *testing.T) {
	p := newPool(t)
	want := errors.New("config unreadable")

	err := p.Do(context.Background(), func(ctx context.Context) error { return want })
	assert.ErrorIs(t, err, want)
}

func TestPool_DoRecoversPanic(t *testing.T) {
	p := newPool(t)

	err := p.Do(context.Background(), func(ctx context.Context) error { panic("driver") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "driver")
}

func TestPool_DoAbandonsWaitOnContext(t *testing.T) {
	p := newPool(t)
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Do(ctx, func(context.Context) error {
		<-release
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
