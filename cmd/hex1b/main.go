// Command hex1b is the ops CLI for hex1b terminal sessions: start,
// list, inspect, resize, attach to, and stop PTY-backed sessions
// managed by this module.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "hex1b",
		Short:        "hex1b terminal session operations",
		Long:         `hex1b is the ops CLI for starting, inspecting, and attaching to PTY-backed terminal sessions.`,
		Version:      version,
		SilenceUsage: true,
	}

	terminalCmd := &cobra.Command{
		Use:   "terminal",
		Short: "Manage terminal sessions",
	}
	terminalCmd.AddCommand(
		newTerminalListCmd(),
		newTerminalInfoCmd(),
		newTerminalStartCmd(),
		newTerminalStopCmd(),
		newTerminalResizeCmd(),
		newTerminalAttachCmd(),
		newTerminalCleanCmd(),
		newTerminalServeCmd(), // hidden: the detached process `start` re-execs into
	)
	rootCmd.AddCommand(terminalCmd)

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// newUserError marks a CLI-level mistake (bad flag, unknown session id)
// as distinct from an internal failure, even though both currently exit
// 1 per the CLI's documented contract.
func newUserError(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
