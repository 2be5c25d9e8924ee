// Package diagnostics implements the line-based JSON protocol served
// over a Unix domain socket per session (spec §6): attach/detach,
// leader-writable input, resize requests, and a live output stream.
package diagnostics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
)

// Message is one line of the diagnostics protocol, serialized as a
// single JSON object per line (newline-delimited JSON).
type Message struct {
	Type   string `json:"type"`
	Data   string `json:"data,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Message type constants, spelled out in spec §6's streaming frame
// format.
const (
	TypeOutput   = "o"
	TypeInput    = "i"
	TypeResize   = "r"
	TypeLeader   = "leader"
	TypeLead     = "lead"
	TypeShutdown = "shutdown"
	TypeDetach   = "detach"
	TypeExit     = "exit"
	TypeAttach   = "attach"
	TypeInfo     = "info"
)

// Callbacks lets the session layer react to client-initiated protocol
// messages without diagnostics importing the session package.
type Callbacks struct {
	OnInput    func(data []byte)
	OnResize   func(width, height int)
	OnShutdown func()
}

type client struct {
	conn    net.Conn
	enc     *json.Encoder
	isLeader bool
}

// Hub serves one session's diagnostics socket: it accepts any number of
// read-only attach connections plus at most one leader connection whose
// input is forwarded to the session (spec §6: "attach --lead grants
// write access; a later --lead bumps the previous leader to read-only").
type Hub struct {
	mu        sync.Mutex
	listener  net.Listener
	clients   map[net.Conn]*client
	leader    net.Conn
	callbacks Callbacks
}

// Listen opens the Unix domain socket at path and returns a Hub serving
// it. Callers must call Serve to start accepting connections.
func Listen(path string, cb Callbacks) (*Hub, error) {
	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: listen %s: %w", path, err)
	}
	return &Hub{
		listener:  l,
		clients:   make(map[net.Conn]*client),
		callbacks: cb,
	}, nil
}

// Addr returns the socket path the Hub is bound to.
func (h *Hub) Addr() string { return h.listener.Addr().String() }

// Serve accepts connections until the listener is closed. Call it in its
// own goroutine.
func (h *Hub) Serve() {
	for {
		conn, err := h.listener.Accept()
		if err != nil {
			return
		}
		go h.handle(conn)
	}
}

// Close stops accepting connections and drops every attached client.
func (h *Hub) Close() error {
	err := h.listener.Close()
	h.mu.Lock()
	for c := range h.clients {
		c.Close()
	}
	h.clients = make(map[net.Conn]*client)
	h.leader = nil
	h.mu.Unlock()
	return err
}

func (h *Hub) handle(conn net.Conn) {
	c := &client{conn: conn, enc: json.NewEncoder(conn)}
	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		if h.leader == conn {
			h.leader = nil
		}
		h.mu.Unlock()
		conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var msg Message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		h.dispatch(conn, c, msg)
	}
}

func (h *Hub) dispatch(conn net.Conn, c *client, msg Message) {
	switch msg.Type {
	case TypeLead:
		h.mu.Lock()
		h.leader = conn
		c.isLeader = true
		h.mu.Unlock()
		h.broadcast(Message{Type: TypeLeader})
	case TypeInput:
		h.mu.Lock()
		isLeader := h.leader == conn
		h.mu.Unlock()
		if isLeader && h.callbacks.OnInput != nil {
			h.callbacks.OnInput([]byte(msg.Data))
		}
	case TypeResize:
		if h.callbacks.OnResize != nil {
			h.callbacks.OnResize(msg.Width, msg.Height)
		}
	case TypeShutdown:
		if h.callbacks.OnShutdown != nil {
			h.callbacks.OnShutdown()
		}
	case TypeDetach:
		conn.Close()
	}
}

// Broadcast sends msg to every attached client. Used by the session
// layer to forward output bytes (TypeOutput), resize notices
// (TypeResize), and the terminal exit notice (TypeExit).
func (h *Hub) Broadcast(msg Message) {
	h.broadcast(msg)
}

func (h *Hub) broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		_ = c.enc.Encode(msg)
	}
}
