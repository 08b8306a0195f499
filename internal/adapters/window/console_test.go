package window

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logAdapter "github.com/bft-labs/linehost/internal/adapters/log"
	"github.com/bft-labs/linehost/internal/domain"
	"github.com/bft-labs/linehost/internal/ports"
)

type titleModel struct {
	title string
}

func (m *titleModel) Title() string            { return m.title }
func (m *titleModel) SetTitle(t string)        { m.title = t }
func (m *titleModel) EventLog() ports.EventLog { return nil }

func TestHeadless_Configure(t *testing.T) {
	vm := &titleModel{title: "linehost"}
	w := NewHeadless(logAdapter.NewNoopLogger())
	w.Bind(vm)

	err := w.Configure(context.Background(), &domain.Settings{
		Window: domain.WindowConf{Title: "Line 4 / Station 2", Fullscreen: true},
	})
	require.NoError(t, err)
	assert.True(t, w.Fullscreen())
	assert.Equal(t, "Line 4 / Station 2", vm.Title())
	assert.Same(t, vm, w.ViewModel())
}

func TestHeadless_KeepsTitleWhenUnset(t *testing.T) {
	vm := &titleModel{title: "linehost"}
	w := NewHeadless(nil)
	w.Bind(vm)

	require.NoError(t, w.Configure(context.Background(), &domain.Settings{}))
	assert.Equal(t, "linehost", vm.Title())
	assert.False(t, w.Fullscreen())
}

func TestHeadless_ConfigureUnbound(t *testing.T) {
	w := NewHeadless(nil)
	err := w.Configure(context.Background(), &domain.Settings{})
	assert.ErrorIs(t, err, ErrNotBound)
}

func TestHeadless_ConfigureCancelled(t *testing.T) {
	w := NewHeadless(nil)
	w.Bind(&titleModel{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Configure(ctx, &domain.Settings{}), context.Canceled)
}
