package ports

// SystemInfo answers questions about the host and its processes.
type SystemInfo interface {
	// IsAlreadyRunning reports whether another process with the given name exists.
	IsAlreadyRunning(processName string) (bool, error)

	// OSInfo returns a one-line description of the operating system.
	OSInfo() string
}

// Terminator forcibly ends the current process.
type Terminator interface {
	Kill()
}
