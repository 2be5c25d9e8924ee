// Package filter implements the presentation filter chain (spec §4.7):
// a fixed-order pipeline of collaborators, each able to observe and
// transform the AppliedToken stream between the emulator and the bytes
// ultimately written to the real terminal, plus observe raw input and
// session lifecycle events.
package filter

import "github.com/hex1b/hex1b/internal/emu"

// SessionMeta describes the terminal session a filter chain is attached
// to, passed to OnSessionStart.
type SessionMeta struct {
	ID     string
	Width  int
	Height int
	Cmd    []string
}

// Filter is the presentation filter contract. Every method has a
// no-op-safe default via BaseFilter, so a concrete filter only
// implements the hooks it cares about.
type Filter interface {
	OnSessionStart(meta SessionMeta)
	OnOutput(applied []emu.AppliedToken) []emu.AppliedToken
	OnInput(data []byte) []byte
	OnResize(width, height int)
	OnSessionEnd()
}

// BaseFilter gives embedding filters an identity implementation of every
// Filter method, so they only override what they need.
type BaseFilter struct{}

func (BaseFilter) OnSessionStart(SessionMeta)                         {}
func (BaseFilter) OnOutput(a []emu.AppliedToken) []emu.AppliedToken    { return a }
func (BaseFilter) OnInput(data []byte) []byte                         { return data }
func (BaseFilter) OnResize(int, int)                                  {}
func (BaseFilter) OnSessionEnd()                                      {}

// Chain runs a fixed, ordered list of filters, threading each hook's
// output into the next filter's input (spec §4.7: "filters compose in
// the order they were registered").
type Chain struct {
	filters []Filter
}

// NewChain builds a Chain from filters in application order.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

func (c *Chain) OnSessionStart(meta SessionMeta) {
	for _, f := range c.filters {
		f.OnSessionStart(meta)
	}
}

func (c *Chain) OnOutput(applied []emu.AppliedToken) []emu.AppliedToken {
	for _, f := range c.filters {
		applied = f.OnOutput(applied)
		if applied == nil {
			return nil
		}
	}
	return applied
}

func (c *Chain) OnInput(data []byte) []byte {
	for _, f := range c.filters {
		data = f.OnInput(data)
		if data == nil {
			return nil
		}
	}
	return data
}

func (c *Chain) OnResize(w, h int) {
	for _, f := range c.filters {
		f.OnResize(w, h)
	}
}

func (c *Chain) OnSessionEnd() {
	for _, f := range c.filters {
		f.OnSessionEnd()
	}
}
