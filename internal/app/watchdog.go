package app

import (
	"time"

	"github.com/bft-labs/linehost/internal/ports"
)

// watch polls the clock until the hard deadline, then kills the process.
// Reaching this point means the process did not exit on its own.
func (s *Shutdown) watch(deadline time.Time) {
	for s.deps.Clock.Now().Before(deadline) {
		s.deps.Clock.Sleep(s.cfg.PollInterval)
	}
	s.deps.Logger.Warn("process still alive after shutdown deadline, terminating",
		ports.Time("deadline", deadline),
	)
	s.deps.Terminator.Kill()
	close(s.killed)
}
