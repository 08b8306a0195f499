package app

import (
	"context"

	"github.com/bft-labs/linehost/internal/domain"
	"github.com/bft-labs/linehost/internal/ports"
)

// registerExitHandler hooks the application exit event. Every exit is
// recorded as closed by the user and reports success, including one
// requested by an aborted startup.
func registerExitHandler(lc *LifecycleContext, logger ports.Logger) {
	lc.Resources.Application.OnExit(func(int) int {
		if err := lc.EventLog().Record(context.Background(), domain.Event{
			Title:  "Application closed by user",
			Origin: "exit",
			State:  domain.StateInfo,
		}); err != nil {
			logger.Warn("failed to record exit event", ports.Err(err))
		}
		return 0
	})
}
