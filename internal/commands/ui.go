package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/task"
	"todo/internal/ui"
)

func init() {
	Register(&UICmd{})
}

// UICmd runs the interactive terminal UI.
type UICmd struct {
	in io.Reader
}

// SetInput implements InputReader.
func (c *UICmd) SetInput(in io.Reader) {
	c.in = in
}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Interactive terminal UI" }
func (c *UICmd) Usage() string     { return "todo ui [common flags]" }
func (c *UICmd) NeedsStore() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, store *task.Store, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	if err := ui.Run(ctx, store, cfg.Logger(), in, out); err != nil {
		fmt.Fprintf(errOut, "error: terminal error: %v\n", err)
		return exitcode.TerminalError
	}
	return exitcode.Success
}
