package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/hex1b/hex1b/internal/diagnostics"
)

// ClientConfig configures an attach Client.
type ClientConfig struct {
	// Version identifies the connecting CLI build. Connect does not send
	// it to the session.
	Version string
	// SocketPath is the session's diagnostics socket (Info.SocketPath).
	SocketPath string
	// Lead requests write access to the session's input.
	Lead bool
}

// Client is a "terminal attach" connection to a running session's
// diagnostics socket. It is safe to Close concurrently and more than
// once.
type Client struct {
	cfg       *ClientConfig
	conn      net.Conn
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewClient constructs a Client for cfg. Call Connect to dial.
func NewClient(cfg *ClientConfig) *Client {
	return &Client{cfg: cfg, done: make(chan struct{})}
}

// Connect dials the session's socket and, if cfg.Lead is set, requests
// the leader role.
func (c *Client) Connect() error {
	conn, err := net.Dial("unix", c.cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("session: attach %s: %w", c.cfg.SocketPath, err)
	}
	c.conn = conn
	if c.cfg.Lead {
		enc := json.NewEncoder(conn)
		if err := enc.Encode(diagnostics.Message{Type: diagnostics.TypeLead}); err != nil {
			conn.Close()
			return fmt.Errorf("session: request leader: %w", err)
		}
	}
	return nil
}

// Send writes one input message to the session; only effective if this
// client holds the leader role.
func (c *Client) Send(data []byte) error {
	return c.SendMessage(diagnostics.Message{Type: diagnostics.TypeInput, Data: string(data)})
}

// SendMessage writes an arbitrary diagnostics frame to the session, for
// control messages (resize, shutdown) rather than raw keyboard input.
func (c *Client) SendMessage(msg diagnostics.Message) error {
	if c.conn == nil {
		return fmt.Errorf("session: client not connected")
	}
	enc := json.NewEncoder(c.conn)
	return enc.Encode(msg)
}

// Messages returns a channel of decoded frames from the session,
// closed when the connection ends.
func (c *Client) Messages() <-chan diagnostics.Message {
	out := make(chan diagnostics.Message)
	go func() {
		defer close(out)
		if c.conn == nil {
			return
		}
		scanner := bufio.NewScanner(c.conn)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			var msg diagnostics.Message
			if json.Unmarshal(scanner.Bytes(), &msg) == nil {
				select {
				case out <- msg:
				case <-c.done:
					return
				}
			}
		}
	}()
	return out
}

// Done returns a channel closed when the client is closed, letting
// callers select on disconnection.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close disconnects the client. Safe to call concurrently and more than
// once; only the first call has effect.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.closeErr = c.conn.Close()
		}
	})
	return c.closeErr
}
