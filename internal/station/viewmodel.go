package station

import (
	"sync"

	"github.com/bft-labs/linehost/internal/ports"
)

// ViewModel is the model bound to the main window.
type ViewModel struct {
	mu    sync.RWMutex
	title string
	log   ports.EventLog
}

// NewViewModel creates a view-model writing to log.
func NewViewModel(title string, log ports.EventLog) *ViewModel {
	return &ViewModel{title: title, log: log}
}

// Title returns the window title.
func (v *ViewModel) Title() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.title
}

// SetTitle sets the window title.
func (v *ViewModel) SetTitle(title string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.title = title
}

// EventLog returns the attached event log.
func (v *ViewModel) EventLog() ports.EventLog {
	if v.log == nil {
		return nil
	}
	return v.log
}
