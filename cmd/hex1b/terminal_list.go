package main

import (
	"fmt"

	"github.com/hex1b/hex1b/internal/session"
	"github.com/spf13/cobra"
)

func newTerminalListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List terminal sessions",
		RunE: func(_ *cobra.Command, _ []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			all, err := reg.List()
			if err != nil {
				return err
			}
			var live []session.Info
			for _, info := range all {
				if session.Alive(info) {
					live = append(live, info)
				}
			}
			return printResult(asJSON, live, func() {
				if len(live) == 0 {
					fmt.Println("no running sessions")
					return
				}
				for _, info := range live {
					fmt.Printf("%s  %4dx%-4d  pid %-8d  %s\n", info.ID, info.Width, info.Height, info.Pid, info.Cmd)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newTerminalCleanCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove registry entries for sessions whose process has exited",
		RunE: func(_ *cobra.Command, _ []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			removed, err := reg.Clean()
			if err != nil {
				return err
			}
			return printResult(asJSON, removed, func() {
				fmt.Printf("removed %d stale session(s)\n", len(removed))
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
