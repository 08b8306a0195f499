package domain

import "io"

// Resource is a closable external handle owned by the lifecycle context.
// Close stops activity, Dispose releases what remains; both are attempted
// during shutdown regardless of each other's outcome.
type Resource interface {
	io.Closer
	Dispose() error
}

// SerialPortEntry pairs a serial port configuration with its open handle.
// Port is nil until the application opens it.
type SerialPortEntry struct {
	Conf SerialPortConf
	Port Resource
}

// DatabaseEntry pairs a database configuration with its provisioned connection.
type DatabaseEntry struct {
	Conf DatabaseConf
	Conn Resource
}
