// Package pty spawns a child process attached to a pseudo-terminal and
// pumps its output to a callback, the way a terminal-attached session
// needs to feed raw bytes into an emulator.
package pty

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	xpty "github.com/charmbracelet/x/xpty"
)

// Process is a child command running under a PTY.
type Process struct {
	pty  xpty.Pty
	cmd  *exec.Cmd
	pid  int
	done chan struct{}

	closeOnce sync.Once
	closeErr  error

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Start launches command (argv[0] plus arguments) with the given
// working directory and terminal size, and begins copying its PTY
// output to onOutput on a background goroutine.
func Start(command []string, cwd string, width, height int, onOutput func([]byte)) (*Process, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("pty: empty command")
	}

	ptyInstance, err := xpty.NewPty(width, height)
	if err != nil {
		return nil, fmt.Errorf("pty: allocate: %w", err)
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = cwd
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	if err := ptyInstance.Start(cmd); err != nil {
		_ = ptyInstance.Close()
		return nil, fmt.Errorf("pty: start %s: %w", command[0], err)
	}
	if err := ptyInstance.Resize(width, height); err != nil {
		_ = err // best effort, some platforms reject a resize before the child is scheduled
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Process{
		pty:    ptyInstance,
		cmd:    cmd,
		done:   make(chan struct{}),
		cancel: cancel,
	}
	if cmd.Process != nil {
		p.pid = cmd.Process.Pid
	}

	p.wg.Add(1)
	go p.pump(ctx, onOutput)

	return p, nil
}

func (p *Process) pump(ctx context.Context, onOutput func([]byte)) {
	defer p.wg.Done()
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := p.pty.Read(buf)
		if n > 0 && onOutput != nil {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			onOutput(chunk)
		}
		if err != nil {
			if err != io.EOF {
				_ = err
			}
			go p.Close() // child's pty closed (process exited); unblock Done()
			return
		}
	}
}

// Pid returns the child process's OS process ID.
func (p *Process) Pid() int { return p.pid }

// Write sends data to the child's stdin via the PTY.
func (p *Process) Write(data []byte) (int, error) {
	return p.pty.Write(data)
}

// Resize updates the PTY's reported window size.
func (p *Process) Resize(width, height int) error {
	return p.pty.Resize(width, height)
}

// Wait blocks until the child process exits.
func (p *Process) Wait() error {
	return p.cmd.Wait()
}

// Close terminates the child process and releases the PTY. Safe to call
// more than once.
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		p.cancel()
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Kill()
		}
		p.closeErr = p.pty.Close()
		p.wg.Wait()
		close(p.done)
	})
	return p.closeErr
}

// Done returns a channel closed once Close has fully run.
func (p *Process) Done() <-chan struct{} { return p.done }
