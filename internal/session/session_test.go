package session_test

import (
	"os"
	"testing"

	"github.com/hex1b/hex1b/internal/session"
)

// newTestRegistry bypasses the XDG state dir lookup so tests don't touch
// the real user environment; it duplicates NewRegistry's directory
// creation against a temp dir instead.
func newTestRegistry(t *testing.T) *session.Registry {
	t.Helper()
	dir := t.TempDir()
	return session.NewRegistryAt(dir)
}

func TestRegisterAndGet(t *testing.T) {
	r := newTestRegistry(t)
	info := session.Info{ID: "abc123", Pid: os.Getpid(), Cmd: []string{"/bin/sh"}, Width: 80, Height: 24}
	if err := r.Register(info); err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, err := r.Get("abc123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Pid != info.Pid || got.Width != 80 {
		t.Fatalf("Get returned %+v, want %+v", got, info)
	}
}

func TestListReturnsAllRegistered(t *testing.T) {
	r := newTestRegistry(t)
	r.Register(session.Info{ID: "a", Pid: os.Getpid()})
	r.Register(session.Info{ID: "b", Pid: os.Getpid()})

	list, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}
}

func TestCleanRemovesDeadSessions(t *testing.T) {
	r := newTestRegistry(t)
	r.Register(session.Info{ID: "dead", Pid: 999999}) // almost certainly not a live pid
	r.Register(session.Info{ID: "alive", Pid: os.Getpid()})

	removed, err := r.Clean()
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(removed) != 1 || removed[0] != "dead" {
		t.Fatalf("expected only 'dead' removed, got %+v", removed)
	}
	if _, err := r.Get("alive"); err != nil {
		t.Fatalf("expected 'alive' session to remain: %v", err)
	}
}
