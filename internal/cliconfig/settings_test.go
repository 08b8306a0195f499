package cliconfig

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestFileLoader_TOML(t *testing.T) {
	path := writeFile(t, "settings.toml", `
line = "L1"
position = 3

[window]
title = "Assembly"
fullscreen = true

[image_folder]
use_app_location = true
folder_location = "images"

[[serial_port]]
description = "SCANNER"
port_name = "/dev/ttyUSB0"
baud_rate = 19200
clear_buffer = true
delay = 100

[[database]]
description = "MES"
connection_string = "postgres://mes@db/line"
`)

	s, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Line != "L1" || s.Position != 3 {
		t.Errorf("Line/Position = %q/%d, want L1/3", s.Line, s.Position)
	}
	if s.Window.Title != "Assembly" || !s.Window.Fullscreen {
		t.Errorf("Window = %+v", s.Window)
	}
	if !s.ImageFolder.UseAppLocation || s.ImageFolder.FolderLocation != "images" {
		t.Errorf("ImageFolder = %+v", s.ImageFolder)
	}
	if len(s.SerialPorts) != 1 || s.SerialPorts[0].PortName != "/dev/ttyUSB0" || s.SerialPorts[0].BaudRate != 19200 {
		t.Errorf("SerialPorts = %+v", s.SerialPorts)
	}
	if len(s.Databases) != 1 || s.Databases[0].Description != "MES" {
		t.Errorf("Databases = %+v", s.Databases)
	}
}

func TestFileLoader_XML(t *testing.T) {
	path := writeFile(t, "settings.XML", `<?xml version="1.0"?>
<Settings>
  <Line>L2</Line>
  <Position>7</Position>
  <SerialPorts>
    <SerialPort><Description>MAIN</Description><PortName>COM3</PortName><Delay>50</Delay></SerialPort>
    <SerialPort><Description>AUX</Description><PortName>COM4</PortName></SerialPort>
  </SerialPorts>
  <Databases>
    <Database><Description>LOCAL</Description><ConnectionString>file:line.db</ConnectionString></Database>
  </Databases>
</Settings>`)

	s, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Line != "L2" || s.Position != 7 {
		t.Errorf("Line/Position = %q/%d, want L2/7", s.Line, s.Position)
	}
	if len(s.SerialPorts) != 2 || s.SerialPorts[0].Delay != 50 || s.SerialPorts[1].PortName != "COM4" {
		t.Errorf("SerialPorts = %+v", s.SerialPorts)
	}
	if len(s.Databases) != 1 || s.Databases[0].ConnectionString != "file:line.db" {
		t.Errorf("Databases = %+v", s.Databases)
	}
}

func TestFileLoader_Errors(t *testing.T) {
	if _, err := NewFileLoader(filepath.Join(t.TempDir(), "missing.toml")).Load(context.Background()); err == nil {
		t.Error("Load() expected error for missing file")
	}

	bad := writeFile(t, "bad.xml", "<Settings><Line>")
	_, err := NewFileLoader(bad).Load(context.Background())
	if err == nil {
		t.Fatal("Load() expected error for malformed XML")
	}
	if !strings.Contains(err.Error(), "bad.xml") {
		t.Errorf("error %q should name the file", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFileLoader(bad).Load(ctx); err == nil {
		t.Error("Load() expected error for cancelled context")
	}
}
