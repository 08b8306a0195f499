// Package window provides a headless main window that stands in for the
// visual surface on terminals and in tests.
package window

import (
	"context"
	"errors"
	"sync"

	"github.com/bft-labs/linehost/internal/domain"
	"github.com/bft-labs/linehost/internal/ports"
)

// ErrNotBound is returned when Configure runs before a view-model is bound.
var ErrNotBound = errors.New("window: no view-model bound")

// Headless implements ports.Window without drawing anything.
type Headless struct {
	mu         sync.Mutex
	vm         ports.ViewModel
	settings   *domain.Settings
	fullscreen bool
	logger     ports.Logger
}

// NewHeadless creates a headless window.
func NewHeadless(logger ports.Logger) *Headless {
	return &Headless{logger: logger}
}

// Bind attaches the view-model.
func (w *Headless) Bind(vm ports.ViewModel) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.vm = vm
}

// Configure applies the initial settings and sets the view-model title.
func (w *Headless) Configure(ctx context.Context, settings *domain.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.vm == nil {
		return ErrNotBound
	}
	w.settings = settings
	w.fullscreen = settings.Window.Fullscreen
	if settings.Window.Title != "" {
		w.vm.SetTitle(settings.Window.Title)
	}
	if w.logger != nil {
		w.logger.Info("main window configured",
			ports.String("title", w.vm.Title()),
			ports.Bool("fullscreen", w.fullscreen),
			ports.String("line", settings.Line),
			ports.Int("position", settings.Position))
	}
	return nil
}

// Fullscreen reports whether the window was configured fullscreen.
func (w *Headless) Fullscreen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fullscreen
}

// ViewModel returns the bound view-model.
func (w *Headless) ViewModel() ports.ViewModel {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.vm
}
