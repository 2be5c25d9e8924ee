package main

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hex1b/hex1b/internal/diagnostics"
	"github.com/hex1b/hex1b/internal/filter"
	"github.com/hex1b/hex1b/internal/pty"
	"github.com/hex1b/hex1b/internal/recording"
	"github.com/hex1b/hex1b/pkg/hex1b"
	"github.com/spf13/cobra"
)

// newTerminalServeCmd is the process `terminal start` re-execs into: it
// owns the PTY-backed child for the lifetime of the session and answers
// diagnostics requests on the session's Unix-domain socket. It is not
// meant to be invoked directly by a user.
func newTerminalServeCmd() *cobra.Command {
	var id, cwd, socketPath, recordingPath string
	var width, height int

	cmd := &cobra.Command{
		Use:    "__serve -- <cmd> <args...>",
		Hidden: true,
		Args:   cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			dash := c.ArgsLenAtDash()
			command := args
			if dash >= 0 {
				command = args[dash:]
			}
			return serve(id, command, cwd, width, height, socketPath, recordingPath)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "")
	cmd.Flags().StringVar(&cwd, "cwd", "", "")
	cmd.Flags().IntVar(&width, "width", 80, "")
	cmd.Flags().IntVar(&height, "height", 24, "")
	cmd.Flags().StringVar(&socketPath, "socket", "", "")
	cmd.Flags().StringVar(&recordingPath, "record", "", "")
	return cmd
}

func serve(id string, command []string, cwd string, width, height int, socketPath, recordingPath string) error {
	logger := newServeLogger(socketPath)
	logger.Info("session starting", "id", id, "command", command, "width", width, "height", height)

	reg, err := openRegistry()
	if err != nil {
		logger.Error("open registry failed", "err", err)
		return err
	}

	var opts []hex1b.Option

	var rec *recording.Recorder
	if recordingPath != "" {
		f, err := os.Create(recordingPath)
		if err != nil {
			return err
		}
		defer f.Close()
		rec, err = recording.New(f, width, height, strings.Join(command, " "), time.Now().Unix())
		if err != nil {
			return err
		}
		opts = append(opts, hex1b.WithRecording(rec, castClock(time.Now()), false))
	}

	var proc *pty.Process

	hub, err := diagnostics.Listen(socketPath, diagnostics.Callbacks{
		OnInput: func(data []byte) {
			if proc != nil {
				_, _ = proc.Write(data)
			}
		},
		OnResize: func(w, h int) {
			if proc != nil {
				_ = proc.Resize(w, h)
			}
		},
		OnShutdown: func() {
			if proc != nil {
				_ = proc.Close()
			}
		},
	})
	if err != nil {
		logger.Error("listen on diagnostics socket failed", "socket", socketPath, "err", err)
		return err
	}
	defer os.Remove(socketPath)
	opts = append(opts, hex1b.WithDiagnostics(hub))

	app := hex1b.New(width, height, opts...)
	app.Start(filter.SessionMeta{ID: id, Width: width, Height: height, Cmd: command})

	go hub.Serve()

	proc, err = pty.Start(command, cwd, width, height, func(data []byte) {
		app.Feed(data)
	})
	if err != nil {
		logger.Error("pty start failed", "command", command, "err", err)
		hub.Close()
		return err
	}

	<-proc.Done()
	logger.Info("session ended", "id", id)
	app.End()
	hub.Close()
	_ = reg.Unregister(id)
	return nil
}

func castClock(start time.Time) filter.Clock {
	return func() float64 { return time.Since(start).Seconds() }
}

// newServeLogger writes lifecycle events to a file next to the session's
// socket, since __serve runs detached with no attached stdio to log to.
func newServeLogger(socketPath string) *log.Logger {
	logPath := strings.TrimSuffix(socketPath, ".sock") + ".log"
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return log.New(os.Stderr)
	}
	return log.New(f)
}
