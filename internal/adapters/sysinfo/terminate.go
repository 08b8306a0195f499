package sysinfo

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// killWait is how long Kill waits for the signal before exiting.
const killWait = time.Second

// SelfTerminator kills the current process. It implements ports.Terminator.
type SelfTerminator struct {
	kill func() error
	exit func(code int)
}

// NewSelfTerminator creates a terminator for the running process.
func NewSelfTerminator() *SelfTerminator {
	return &SelfTerminator{kill: killSelf, exit: os.Exit}
}

// Kill sends a kill signal to the current process and exits with code 1
// if that fails.
func (t *SelfTerminator) Kill() {
	if err := t.kill(); err == nil {
		// Signal delivery is asynchronous; exit is the backstop.
		time.Sleep(killWait)
	}
	t.exit(1)
}

func killSelf() error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	return p.Kill()
}
