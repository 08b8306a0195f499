package cliconfig

import (
	"strconv"
	"strings"

	"github.com/bft-labs/linehost/internal/domain"
)

// Startup argument keywords. Matching is case-insensitive.
const (
	ArgFullscreen  = "FULLSCREEN"
	ArgClearBuffer = "CLEARBUFFER"
	ArgSerialDelay = "BCSDELAY"
	ArgLine        = "LINE"
	ArgPosition    = "POSITION"
)

// ParseArguments parses the startup arguments.
// Unknown words are kept in List but otherwise ignored; malformed numbers leave the value unset.
func ParseArguments(args []string) domain.Arguments {
	a := domain.Arguments{List: strings.Join(args, " ")}
	for _, raw := range args {
		key, value, _ := strings.Cut(strings.TrimSpace(raw), "=")
		switch strings.ToUpper(key) {
		case ArgFullscreen:
			a.Fullscreen = true
		case ArgClearBuffer:
			a.ClearBuffer = true
		case ArgSerialDelay:
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				a.SerialDelay = n
			}
		case ArgLine:
			a.Line = value
		case ArgPosition:
			if n, err := strconv.Atoi(value); err == nil {
				a.Position = n
			}
		}
	}
	return a
}

// MergeArguments applies parsed arguments on top of the loaded settings.
// Arguments only ever add to the settings: an unset argument keeps the file value.
func MergeArguments(s *domain.Settings, a domain.Arguments) {
	s.Arguments = a
	if a.Fullscreen {
		s.Window.Fullscreen = true
	}
	if a.Line != "" {
		s.Line = a.Line
	}
	if a.Position != 0 {
		s.Position = a.Position
	}
	for i := range s.SerialPorts {
		ApplySerialArguments(&s.SerialPorts[i], a)
	}
}

// ApplySerialArguments applies the CLEARBUFFER and BCSDELAY overrides to one port.
func ApplySerialArguments(c *domain.SerialPortConf, a domain.Arguments) {
	if a.ClearBuffer {
		c.ClearBuffer = true
	}
	if a.SerialDelay > 0 {
		c.Delay = a.SerialDelay
	}
}
