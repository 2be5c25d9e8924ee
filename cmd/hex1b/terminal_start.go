package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hex1b/hex1b/internal/session"
	"github.com/spf13/cobra"
)

func newTerminalStartCmd() *cobra.Command {
	var width, height int
	var cwd, record string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "start [--width N --height N --cwd D --record F] -- <cmd> <args...>",
		Short: "Start a new terminal session running the given command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			dash := c.ArgsLenAtDash()
			command := args
			if dash >= 0 {
				command = args[dash:]
			}
			if len(command) == 0 {
				return newUserError("no command given after --")
			}

			cfg := loadConfig()
			if width <= 0 {
				width = cfg.Session.DefaultWidth
			}
			if height <= 0 {
				height = cfg.Session.DefaultHeight
			}
			if cwd == "" {
				var err error
				cwd, err = os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve cwd: %w", err)
				}
			}

			id := newSessionID()
			socketDir, err := cfg.SocketDirOrDefault()
			if err != nil {
				return fmt.Errorf("resolve socket dir: %w", err)
			}
			if err := os.MkdirAll(socketDir, 0750); err != nil {
				return fmt.Errorf("create socket dir: %w", err)
			}
			socketPath := filepath.Join(socketDir, id+".sock")

			var recordingPath string
			if record != "" {
				recordingPath = record
				if !filepath.IsAbs(recordingPath) {
					dir, err := cfg.RecordingDirOrDefault()
					if err != nil {
						return fmt.Errorf("resolve recording dir: %w", err)
					}
					if err := os.MkdirAll(dir, 0750); err != nil {
						return fmt.Errorf("create recording dir: %w", err)
					}
					recordingPath = filepath.Join(dir, record)
				}
			}

			pid, err := spawnServe(id, command, cwd, width, height, socketPath, recordingPath)
			if err != nil {
				return fmt.Errorf("spawn session: %w", err)
			}

			info := session.Info{
				ID:            id,
				Pid:           pid,
				Cmd:           command,
				Cwd:           cwd,
				Width:         width,
				Height:        height,
				SocketPath:    socketPath,
				RecordingPath: recordingPath,
				StartedAt:     time.Now().Unix(),
			}
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			if err := reg.Register(info); err != nil {
				return fmt.Errorf("register session: %w", err)
			}

			return printResult(asJSON, info, func() {
				fmt.Println(info.ID)
			})
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Terminal width in columns (default: from config or 80)")
	cmd.Flags().IntVar(&height, "height", 0, "Terminal height in rows (default: from config or 24)")
	cmd.Flags().StringVar(&cwd, "cwd", "", "Working directory for the child process (default: current directory)")
	cmd.Flags().StringVar(&record, "record", "", "Record the session to this asciinema cast file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newSessionID() string {
	return fmt.Sprintf("%x", os.Getpid()) + "-" + uuid.NewString()[:8]
}

// spawnServe re-execs the current binary into `terminal __serve`, which
// runs the actual session loop, and detaches it into its own process
// group so it survives this command exiting.
func spawnServe(id string, command []string, cwd string, width, height int, socketPath, recordingPath string) (int, error) {
	self, err := os.Executable()
	if err != nil {
		return 0, err
	}

	args := []string{
		"terminal", "__serve",
		"--id", id,
		"--cwd", cwd,
		"--width", fmt.Sprint(width),
		"--height", fmt.Sprint(height),
		"--socket", socketPath,
	}
	if recordingPath != "" {
		args = append(args, "--record", recordingPath)
	}
	args = append(args, "--")
	args = append(args, command...)

	child := exec.Command(self, args...)
	child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	child.Stdin, child.Stdout, child.Stderr = nil, nil, nil

	if err := child.Start(); err != nil {
		return 0, err
	}
	go child.Wait() // reap in the background; the serve process outlives us

	return child.Process.Pid, nil
}
