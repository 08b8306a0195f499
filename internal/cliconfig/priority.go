package cliconfig

import (
	"strings"

	"github.com/bft-labs/linehost/internal/ports"
)

// ParsePriority converts a priority name into a dispatcher priority.
func ParsePriority(name string) (ports.Priority, bool) {
	for _, p := range []ports.Priority{ports.PriorityBackground, ports.PriorityNormal, ports.PriorityRender, ports.PrioritySend} {
		if strings.EqualFold(p.String(), name) {
			return p, true
		}
	}
	return 0, false
}
