package cliconfig

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/linehost/internal/domain"
)

// SettingsFile is the on-disk layout of the main application settings.
// The same shape is read from TOML and, for files ending in .xml, from XML.
type SettingsFile struct {
	XMLName  xml.Name `toml:"-" xml:"Settings"`
	Line     string   `toml:"line" xml:"Line"`
	Position int      `toml:"position" xml:"Position"`

	Window struct {
		Title      string `toml:"title" xml:"Title"`
		Fullscreen bool   `toml:"fullscreen" xml:"Fullscreen"`
	} `toml:"window" xml:"Window"`

	ImageFolder struct {
		UseAppLocation bool   `toml:"use_app_location" xml:"UseAppLocation"`
		FolderLocation string `toml:"folder_location" xml:"FolderLocation"`
	} `toml:"image_folder" xml:"ImageFolder"`

	SerialPorts []struct {
		Description string `toml:"description" xml:"Description"`
		PortName    string `toml:"port_name" xml:"PortName"`
		BaudRate    int    `toml:"baud_rate" xml:"BaudRate"`
		ClearBuffer bool   `toml:"clear_buffer" xml:"ClearBuffer"`
		Delay       int    `toml:"delay" xml:"Delay"`
	} `toml:"serial_port" xml:"SerialPorts>SerialPort"`

	Databases []struct {
		Description      string `toml:"description" xml:"Description"`
		ConnectionString string `toml:"connection_string" xml:"ConnectionString"`
	} `toml:"database" xml:"Databases>Database"`
}

// Settings converts the file layout into domain settings.
func (f *SettingsFile) Settings() *domain.Settings {
	s := &domain.Settings{
		Line:     f.Line,
		Position: f.Position,
		Window: domain.WindowConf{
			Title:      f.Window.Title,
			Fullscreen: f.Window.Fullscreen,
		},
		ImageFolder: domain.ImageFolder{
			UseAppLocation: f.ImageFolder.UseAppLocation,
			FolderLocation: f.ImageFolder.FolderLocation,
		},
	}
	for _, p := range f.SerialPorts {
		s.SerialPorts = append(s.SerialPorts, domain.SerialPortConf{
			Description: p.Description,
			PortName:    p.PortName,
			BaudRate:    p.BaudRate,
			ClearBuffer: p.ClearBuffer,
			Delay:       p.Delay,
		})
	}
	for _, d := range f.Databases {
		s.Databases = append(s.Databases, domain.DatabaseConf{
			Description:      d.Description,
			ConnectionString: d.ConnectionString,
		})
	}
	return s
}

// FileLoader loads settings from a file on disk.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for the given settings file.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Path returns the settings file path.
func (l *FileLoader) Path() string {
	return l.path
}

// Load reads and decodes the settings file.
// Error messages are meant to be shown to the operator as-is.
func (l *FileLoader) Load(ctx context.Context) (*domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", l.path, err)
	}
	var f SettingsFile
	if strings.EqualFold(filepath.Ext(l.path), ".xml") {
		err = xml.Unmarshal(b, &f)
	} else {
		err = toml.Unmarshal(b, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", l.path, err)
	}
	return f.Settings(), nil
}
