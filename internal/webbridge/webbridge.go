// Package webbridge exposes a running session's diagnostics stream over
// a browser WebSocket, so `terminal attach --web` can serve a page that
// watches (and optionally drives, with --lead) a session without a
// native client. It is a thin relay: it dials the same Unix-domain
// diagnostics socket a native `terminal attach` uses and forwards
// diagnostics.Message traffic to and from the browser.
package webbridge

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/hex1b/hex1b/internal/diagnostics"
	"github.com/hex1b/hex1b/internal/session"
)

// resizeMessage is what the browser sends on a manual resize; it mirrors
// the {type, cols, rows} shape a simple xterm.js client would emit.
type resizeMessage struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

// Bridge upgrades HTTP requests to a WebSocket connection relaying a
// single session's diagnostics stream.
type Bridge struct {
	SocketPath string
	Lead       bool
	upgrader   websocket.Upgrader
}

// New returns a Bridge that relays the diagnostics socket at socketPath.
// When lead is true, the browser's keystrokes are forwarded as the
// session's controlling input (see diagnostics.TypeLead).
func New(socketPath string, lead bool) *Bridge {
	return &Bridge{
		SocketPath: socketPath,
		Lead:       lead,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP implements http.Handler, upgrading the request to a
// WebSocket and bridging it to the session's diagnostics socket for the
// lifetime of the connection.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("webbridge: upgrade error: %v", err)
		return
	}
	defer conn.Close()

	client := session.NewClient(&session.ClientConfig{SocketPath: b.SocketPath, Lead: b.Lead})
	if err := client.Connect(); err != nil {
		log.Printf("webbridge: connect error: %v", err)
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to attach: "+err.Error()))
		return
	}
	defer client.Close()

	go b.pumpSessionToBrowser(client, conn)
	b.pumpBrowserToSession(conn, client)
}

// pumpSessionToBrowser forwards diagnostics messages (output, resize,
// leader changes) to the browser as JSON text frames until the session
// or the browser connection closes.
func (b *Bridge) pumpSessionToBrowser(client *session.Client, conn *websocket.Conn) {
	for {
		select {
		case msg, ok := <-client.Messages():
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-client.Done():
			return
		}
	}
}

// pumpBrowserToSession reads browser frames and relays them to the
// session: text frames carrying a resize payload become a resize
// message, everything else is treated as raw keyboard input.
func (b *Bridge) pumpBrowserToSession(conn *websocket.Conn, client *session.Client) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType == websocket.TextMessage {
			var resize resizeMessage
			if err := json.Unmarshal(data, &resize); err == nil && resize.Type == "resize" {
				_ = client.SendMessage(diagnostics.Message{
					Type: diagnostics.TypeResize, Width: resize.Cols, Height: resize.Rows,
				})
				continue
			}
		}
		if err := client.Send(data); err != nil {
			return
		}
	}
}
