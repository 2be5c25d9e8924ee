package main

import (
	"fmt"

	"github.com/hex1b/hex1b/internal/diagnostics"
	"github.com/hex1b/hex1b/internal/session"
	"github.com/spf13/cobra"
)

func newTerminalStopCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stop <id>",
		Short: "Stop a terminal session",
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
			if err := sendShutdown(info); err != nil {
				return fmt.Errorf("stop session %s: %w", info.ID, err)
			}
			_ = reg.Unregister(info.ID)
			return printResult(asJSON, map[string]string{"stopped": info.ID}, func() {
				fmt.Printf("stopped %s\n", info.ID)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newTerminalResizeCmd() *cobra.Command {
	var width, height int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "resize <id> [--width N] [--height N]",
		Short: "Resize a terminal session",
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
			if width <= 0 {
				width = info.Width
			}
			if height <= 0 {
				height = info.Height
			}
			if err := sendResize(info, width, height); err != nil {
				return fmt.Errorf("resize session %s: %w", info.ID, err)
			}
			info.Width, info.Height = width, height
			_ = reg.Register(info)
			return printResult(asJSON, info, func() {
				fmt.Printf("resized %s to %dx%d\n", info.ID, width, height)
			})
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "New width in columns")
	cmd.Flags().IntVar(&height, "height", 0, "New height in rows")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func sendShutdown(info session.Info) error {
	return sendMessage(info, diagnostics.Message{Type: diagnostics.TypeShutdown})
}

func sendResize(info session.Info, width, height int) error {
	return sendMessage(info, diagnostics.Message{Type: diagnostics.TypeResize, Width: width, Height: height})
}

func sendMessage(info session.Info, msg diagnostics.Message) error {
	client := session.NewClient(&session.ClientConfig{SocketPath: info.SocketPath})
	if err := client.Connect(); err != nil {
		return err
	}
	defer client.Close()
	return client.SendMessage(msg)
}
