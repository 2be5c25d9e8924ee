// Package session implements the on-disk session registry backing the
// CLI (spec §6): every "terminal start" invocation runs as its own
// background process and registers a small JSON descriptor so other
// invocations of the CLI ("terminal list", "terminal attach", ...) can
// discover it and reach its diagnostics socket.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/shirou/gopsutil/v4/process"
)

// Info is the persisted descriptor for one running session.
type Info struct {
	ID            string   `json:"id"`
	Pid           int      `json:"pid"`
	Cmd           []string `json:"cmd"`
	Cwd           string   `json:"cwd"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	SocketPath    string   `json:"socket_path"`
	RecordingPath string   `json:"recording_path,omitempty"`
	StartedAt     int64    `json:"started_at"`
}

// Registry stores Info descriptors as one JSON file per session under
// the XDG state directory.
type Registry struct {
	dir string
}

// NewRegistry opens (creating if needed) the registry directory.
func NewRegistry() (*Registry, error) {
	keepFile, err := xdg.StateFile("hex1b/sessions/.keep")
	if err != nil {
		return nil, fmt.Errorf("session: locate registry dir: %w", err)
	}
	return &Registry{dir: filepath.Dir(keepFile)}, nil
}

// NewRegistryAt opens a registry rooted at an explicit directory,
// bypassing the XDG state dir lookup. Production code should use
// NewRegistry; this exists for tests that need an isolated directory.
func NewRegistryAt(dir string) *Registry {
	return &Registry{dir: dir}
}

func (r *Registry) path(id string) string {
	return filepath.Join(r.dir, id+".json")
}

// Register persists info, overwriting any prior descriptor with the
// same ID.
func (r *Registry) Register(info Info) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal %s: %w", info.ID, err)
	}
	if err := os.WriteFile(r.path(info.ID), data, 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", info.ID, err)
	}
	return nil
}

// Unregister removes a session's descriptor. Missing files are not an
// error, matching the idempotent "clean" semantics the CLI wants.
func (r *Registry) Unregister(id string) error {
	if err := os.Remove(r.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove %s: %w", id, err)
	}
	return nil
}

// Get loads a single session's descriptor.
func (r *Registry) Get(id string) (Info, error) {
	data, err := os.ReadFile(r.path(id))
	if err != nil {
		return Info{}, fmt.Errorf("session: read %s: %w", id, err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("session: unmarshal %s: %w", id, err)
	}
	return info, nil
}

// List returns every registered session, in no particular order.
func (r *Registry) List() ([]Info, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("session: list %s: %w", r.dir, err)
	}
	var out []Info
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, e.Name()))
		if err != nil {
			continue
		}
		var info Info
		if json.Unmarshal(data, &info) == nil {
			out = append(out, info)
		}
	}
	return out, nil
}

// Alive reports whether info's process is still running, used by
// "terminal list" and "terminal clean" to distinguish a live session
// from an orphaned descriptor left behind by a crash.
func Alive(info Info) bool {
	alive, err := process.PidExists(int32(info.Pid))
	return err == nil && alive
}

// Clean removes every registered descriptor whose process is no longer
// running, and returns the IDs it removed.
func (r *Registry) Clean() ([]string, error) {
	infos, err := r.List()
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, info := range infos {
		if !Alive(info) {
			if err := r.Unregister(info.ID); err == nil {
				removed = append(removed, info.ID)
			}
		}
	}
	return removed, nil
}
