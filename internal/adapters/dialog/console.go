// Package dialog presents operator dialogs on a terminal. Error details are
// rendered as a table; in interactive mode every dialog waits for the
// operator to acknowledge it.
package dialog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/manifoldco/promptui"
	"github.com/olekukonko/tablewriter"

	"github.com/bft-labs/linehost/internal/ports"
)

// Console implements ports.Dialog on a terminal.
type Console struct {
	mu          sync.Mutex
	out         io.Writer
	in          io.ReadCloser
	interactive bool
}

// NewConsole creates a console dialog. When interactive is false dialogs
// are printed and return immediately.
func NewConsole(out io.Writer, in io.ReadCloser, interactive bool) *Console {
	return &Console{out: out, in: in, interactive: interactive}
}

// ShowError renders an error dialog.
func (c *Console) ShowError(ctx context.Context, kind ports.DialogKind, message, title string, severity ports.Severity) error {
	c.mu.Lock()
	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.Append([]string{"Title", title})
	table.Append([]string{"Kind", kind.String()})
	table.Append([]string{"Severity", severity.String()})
	for i, line := range strings.Split(strings.TrimSpace(message), "\n") {
		label := ""
		if i == 0 {
			label = "Details"
		}
		table.Append([]string{label, line})
	}
	table.Render()
	c.mu.Unlock()

	return c.acknowledge(ctx)
}

// ShowBlocking renders a modal message.
func (c *Console) ShowBlocking(ctx context.Context, title, body string) error {
	c.mu.Lock()
	fmt.Fprintf(c.out, "== %s ==\n%s\n", title, body)
	c.mu.Unlock()

	return c.acknowledge(ctx)
}

func (c *Console) acknowledge(ctx context.Context) error {
	if !c.interactive {
		return nil
	}
	prompt := promptui.Prompt{
		Label:  "Press Enter to continue",
		Stdin:  c.in,
		Stdout: nopWriteCloser{c.out},
	}

	done := make(chan error, 1)
	go func() {
		_, err := prompt.Run()
		done <- err
	}()

	select {
	case err := <-done:
		if err == promptui.ErrInterrupt || err == promptui.ErrEOF {
			return nil
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
