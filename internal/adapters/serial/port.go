// Package serial opens the configured serial ports with go.bug.st/serial and
// exposes them as closable registry resources.
package serial

import (
	"fmt"
	"sync"

	"go.bug.st/serial"

	"github.com/bft-labs/linehost/internal/domain"
)

// DefaultBaudRate is used when the configuration leaves the rate unset.
const DefaultBaudRate = 9600

// rawPort is the subset of serial.Port the adapter drives.
type rawPort interface {
	ResetInputBuffer() error
	Close() error
}

var openPort = func(name string, mode *serial.Mode) (rawPort, error) {
	return serial.Open(name, mode)
}

// Port is an open serial port.
type Port struct {
	mu   sync.Mutex
	raw  rawPort
	conf domain.SerialPortConf
}

// Open opens the port described by conf. The input buffer is cleared when
// the configuration asks for it.
func Open(conf domain.SerialPortConf) (*Port, error) {
	baud := conf.BaudRate
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	raw, err := openPort(conf.PortName, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", conf.PortName, err)
	}
	p := &Port{raw: raw, conf: conf}
	if conf.ClearBuffer {
		if err := raw.ResetInputBuffer(); err != nil {
			_ = raw.Close()
			return nil, fmt.Errorf("clear buffer on %s: %w", conf.PortName, err)
		}
	}
	return p, nil
}

// Conf returns the port configuration.
func (p *Port) Conf() domain.SerialPortConf {
	return p.conf
}

// Close closes the underlying device.
func (p *Port) Close() error {
	p.mu.Lock()
	raw := p.raw
	p.mu.Unlock()
	if raw == nil {
		return nil
	}
	return raw.Close()
}

// Dispose releases the device reference.
func (p *Port) Dispose() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.raw = nil
	return nil
}
