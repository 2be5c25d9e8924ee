package main

import (
	"fmt"
	"time"

	"github.com/hex1b/hex1b/internal/session"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/cobra"
)

// terminalInfo augments the registry record with live process stats so
// `terminal info` can report whether a session is actually backed by a
// running process, and how long it has been running.
type terminalInfo struct {
	session.Info
	Running    bool   `json:"running"`
	MemoryRSS  uint64 `json:"memory_rss_bytes,omitempty"`
	StartedFor string `json:"running_for,omitempty"`
}

func newTerminalInfoCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <id>",
		Short: "Show details for a terminal session",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			base, err := resolveID(reg, args[0])
			if err != nil {
				return err
			}

			info := terminalInfo{Info: base, Running: session.Alive(base)}
			if proc, err := process.NewProcess(int32(base.Pid)); err == nil {
				if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
					info.MemoryRSS = mem.RSS
				}
				if createdMs, err := proc.CreateTime(); err == nil {
					info.StartedFor = time.Since(time.UnixMilli(createdMs)).Round(time.Second).String()
				}
			}

			return printResult(asJSON, info, func() {
				fmt.Printf("id:        %s\n", info.ID)
				fmt.Printf("pid:       %d (running: %t)\n", info.Pid, info.Running)
				fmt.Printf("command:   %v\n", info.Cmd)
				fmt.Printf("size:      %dx%d\n", info.Width, info.Height)
				fmt.Printf("cwd:       %s\n", info.Cwd)
				fmt.Printf("socket:    %s\n", info.SocketPath)
				if info.RecordingPath != "" {
					fmt.Printf("recording: %s\n", info.RecordingPath)
				}
				if info.StartedFor != "" {
					fmt.Printf("uptime:    %s\n", info.StartedFor)
				}
				if info.MemoryRSS > 0 {
					fmt.Printf("memory:    %d KiB\n", info.MemoryRSS/1024)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
