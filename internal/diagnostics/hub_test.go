package diagnostics_test

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/hex1b/hex1b/internal/diagnostics"
)

func TestHubBroadcastsToAttachedClient(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "sess.sock")
	hub, err := diagnostics.Listen(sock, diagnostics.Callbacks{})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer hub.Close()
	go hub.Serve()

	conn, err := net.Dial("unix", sock)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	// Give the accept goroutine a moment to register the client.
	time.Sleep(10 * time.Millisecond)
	hub.Broadcast(diagnostics.Message{Type: diagnostics.TypeOutput, Data: "hello"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		t.Fatalf("expected a broadcast line, got scan error: %v", scanner.Err())
	}
	var msg diagnostics.Message
	if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != diagnostics.TypeOutput || msg.Data != "hello" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestHubLeaderInputReachesCallback(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "sess.sock")
	received := make(chan string, 1)
	hub, err := diagnostics.Listen(sock, diagnostics.Callbacks{
		OnInput: func(data []byte) { received <- string(data) },
	})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer hub.Close()
	go hub.Serve()

	conn, err := net.Dial("unix", sock)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(diagnostics.Message{Type: diagnostics.TypeLead}); err != nil {
		t.Fatalf("encode lead: %v", err)
	}
	if err := enc.Encode(diagnostics.Message{Type: diagnostics.TypeInput, Data: "ls\n"}); err != nil {
		t.Fatalf("encode input: %v", err)
	}

	select {
	case got := <-received:
		if got != "ls\n" {
			t.Fatalf("got input %q, want %q", got, "ls\n")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for leader input callback")
	}
}

func TestNonLeaderInputIsIgnored(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "sess.sock")
	received := make(chan string, 1)
	hub, err := diagnostics.Listen(sock, diagnostics.Callbacks{
		OnInput: func(data []byte) { received <- string(data) },
	})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer hub.Close()
	go hub.Serve()

	conn, err := net.Dial("unix", sock)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(diagnostics.Message{Type: diagnostics.TypeInput, Data: "ls\n"}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	select {
	case got := <-received:
		t.Fatalf("expected non-leader input to be ignored, got %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}
