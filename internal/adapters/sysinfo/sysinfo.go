// Package sysinfo answers host questions with gopsutil: whether another
// instance of the application is running, and a description of the OS.
package sysinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/process"
)

// processEntry is the subset of process data the instance check needs.
type processEntry struct {
	pid  int32
	name string
}

// Info implements ports.SystemInfo.
type Info struct {
	selfPID int32
	list    func() ([]processEntry, error)
	hostOS  func() (*host.InfoStat, error)
}

// New creates an Info backed by the live process table.
func New() *Info {
	return &Info{
		selfPID: int32(os.Getpid()),
		list:    listProcesses,
		hostOS:  host.Info,
	}
}

// IsAlreadyRunning reports whether a process other than this one carries
// the given name. Names are compared without extension, case-insensitively.
func (i *Info) IsAlreadyRunning(processName string) (bool, error) {
	procs, err := i.list()
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}
	want := normalize(processName)
	for _, p := range procs {
		if p.pid == i.selfPID {
			continue
		}
		if normalize(p.name) == want {
			return true, nil
		}
	}
	return false, nil
}

// OSInfo returns a one-line OS description. It never fails; when host data
// is unavailable the Go runtime target is returned.
func (i *Info) OSInfo() string {
	fallback := runtime.GOOS + "/" + runtime.GOARCH
	if i.hostOS == nil {
		return fallback
	}
	h, err := i.hostOS()
	if err != nil || h == nil {
		return fallback
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %s (%s)", h.OS, h.Platform, h.PlatformVersion, h.KernelArch))
}

func listProcesses() ([]processEntry, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	out := make([]processEntry, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			// Process exited or is not readable.
			continue
		}
		out = append(out, processEntry{pid: p.Pid, name: name})
	}
	return out, nil
}

func normalize(name string) string {
	base := filepath.Base(name)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
