package dialog

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/linehost/internal/ports"
)

func TestConsole_ShowErrorRendersTable(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, nil, false)

	err := c.ShowError(context.Background(), ports.DialogConfigReadError,
		"linux debian 12\nstation 1.2.0\nsettings.toml: line 3: bad value",
		"Settings", ports.SeverityCritical)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ConfigReadError")
	assert.Contains(t, out, "Critical")
	assert.Contains(t, out, "settings.toml: line 3: bad value")
}

func TestConsole_ShowBlocking(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, nil, false)

	require.NoError(t, c.ShowBlocking(context.Background(), "Application is not registered", "LogEntries is nil"))
	assert.Contains(t, buf.String(), "== Application is not registered ==")
	assert.Contains(t, buf.String(), "LogEntries is nil")
}
