package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/hex1b/hex1b/internal/diagnostics"
	"github.com/hex1b/hex1b/internal/session"
	"github.com/hex1b/hex1b/internal/webbridge"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newTerminalAttachCmd() *cobra.Command {
	var resize, lead, web bool
	var port int

	cmd := &cobra.Command{
		Use:   "attach <id> [--resize] [--lead] [--web] [--port N]",
		Short: "Attach to a running terminal session",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			reg, err := openRegistry()
			if err != nil {
				return err
			}
			info, err := resolveID(reg, args[0])
			if err != nil {
				return err
			}
			if web {
				return serveWeb(info, lead, port)
			}
			return attachLocal(info, lead, resize)
		},
	}

	cmd.Flags().BoolVar(&resize, "resize", false, "Resize the session to match this terminal")
	cmd.Flags().BoolVar(&lead, "lead", false, "Attach as the writable leader")
	cmd.Flags().BoolVar(&web, "web", false, "Serve the session over a browser WebSocket instead")
	cmd.Flags().IntVar(&port, "port", 7676, "Port to listen on with --web")
	return cmd
}

func serveWeb(info session.Info, lead bool, port int) error {
	bridge := webbridge.New(info.SocketPath, lead)
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("serving %s at http://localhost%s\n", info.ID, addr)
	return http.ListenAndServe(addr, bridge)
}

func attachLocal(info session.Info, lead, resize bool) error {
	client := session.NewClient(&session.ClientConfig{SocketPath: info.SocketPath, Lead: lead})
	if err := client.Connect(); err != nil {
		return fmt.Errorf("attach session %s: %w", info.ID, err)
	}
	defer client.Close()

	if resize {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			_ = client.SendMessage(diagnostics.Message{Type: diagnostics.TypeResize, Width: w, Height: h})
		}
	}

	stdinFd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(stdinFd)
	if err == nil {
		defer term.Restore(stdinFd, oldState)
	}

	go pumpStdinToSession(client)
	pumpSessionToStdout(client)
	return nil
}

func pumpStdinToSession(client *session.Client) {
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			if sendErr := client.Send(buf[:n]); sendErr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func pumpSessionToStdout(client *session.Client) {
	for {
		select {
		case msg, ok := <-client.Messages():
			if !ok {
				return
			}
			switch msg.Type {
			case diagnostics.TypeOutput:
				os.Stdout.WriteString(msg.Data)
			case diagnostics.TypeExit:
				return
			}
		case <-client.Done():
			return
		}
	}
}
