package domain

// Default serial port parameters used when no port is configured.
const (
	DefaultSerialDescription = "MAIN"
	DefaultSerialPortName    = "COM1"
	DefaultSerialDelay       = 900
)

// Settings is the main application configuration produced by the
// configuration loader.
type Settings struct {
	// Line identifies the production line the station belongs to.
	Line string

	// Position identifies the station position on the line.
	Position int

	Window      WindowConf
	ImageFolder ImageFolder
	SerialPorts []SerialPortConf
	Databases   []DatabaseConf

	// Arguments holds the startup arguments merged into the settings.
	Arguments Arguments
}

// WindowConf holds main window options.
type WindowConf struct {
	Title      string
	Fullscreen bool
}

// ImageFolder locates the image/asset folder.
type ImageFolder struct {
	// UseAppLocation resolves FolderLocation relative to the working directory.
	UseAppLocation bool

	// FolderLocation is the configured folder; after resolution it holds the final path.
	FolderLocation string
}

// SerialPortConf describes one serial port.
type SerialPortConf struct {
	Description string
	PortName    string
	BaudRate    int
	ClearBuffer bool

	// Delay is the pause between serial exchanges, in milliseconds.
	Delay int
}

// DefaultSerialPortConf returns the single port used when none is configured.
func DefaultSerialPortConf() SerialPortConf {
	return SerialPortConf{
		Description: DefaultSerialDescription,
		PortName:    DefaultSerialPortName,
		ClearBuffer: true,
		Delay:       DefaultSerialDelay,
	}
}

// DatabaseConf describes one database connection.
type DatabaseConf struct {
	Description      string
	ConnectionString string
}

// Arguments are the parsed startup arguments.
type Arguments struct {
	// List is the raw argument list joined with spaces.
	List string

	Fullscreen  bool
	ClearBuffer bool

	// SerialDelay overrides the serial delay when positive.
	SerialDelay int

	Line     string
	Position int
}
