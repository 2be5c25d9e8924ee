// Package hex1b is the public, embeddable API for the hex1b terminal UI
// toolkit: a terminal emulator buffer driven by a declarative render
// engine, wired to a presentation filter chain and input router. It is
// the surface a host application (or the hex1b CLI itself) builds
// against instead of reaching into internal packages directly.
//
// # Basic usage
//
//	app := hex1b.New(80, 24, hex1b.WithTheme(theme.Default()))
//	app.RenderFrame(func() widget.Description {
//		return widget.LabelDesc{Text: "hello"}
//	})
//	for _, tok := range app.Feed(childOutput) {
//		_ = tok
//	}
package hex1b

import (
	"github.com/hex1b/hex1b/internal/emu"
	"github.com/hex1b/hex1b/internal/filter"
	"github.com/hex1b/hex1b/internal/input"
	"github.com/hex1b/hex1b/internal/recording"
	"github.com/hex1b/hex1b/internal/render"
	"github.com/hex1b/hex1b/internal/token"
	"github.com/hex1b/hex1b/internal/widget"
)

// Description and Node re-export the widget vocabulary a host
// application builds its UI out of, so callers don't need to import
// internal/widget directly.
type (
	Description = widget.Description
	Node        = widget.Node
	Theme       = widget.Theme
	Binding     = widget.Binding
	Trigger     = widget.Trigger
)

// App bundles an emulator, render engine, input router, and
// presentation filter chain into a single embeddable unit.
type App struct {
	emulator *emu.Emulator
	engine   *render.Engine
	router   *input.Router
	filters  *filter.Chain
}

// Option configures an App at construction time.
type Option func(*options)

type options struct {
	theme      widget.Theme
	filters    []filter.Filter
	recorder   *recording.Recorder
	recordNow  filter.Clock
	recordIn   bool
	diagBroker filter.Broadcaster
}

// WithTheme sets the color theme used when rendering.
func WithTheme(t widget.Theme) Option {
	return func(o *options) { o.theme = t }
}

// WithFilter appends a presentation filter to the chain, applied in the
// order given to New.
func WithFilter(f filter.Filter) Option {
	return func(o *options) { o.filters = append(o.filters, f) }
}

// WithRecording attaches an asciinema recorder; recordInput also
// records keystrokes sent to the session, not just its output.
func WithRecording(rec *recording.Recorder, now filter.Clock, recordInput bool) Option {
	return func(o *options) {
		o.recorder = rec
		o.recordNow = now
		o.recordIn = recordInput
	}
}

// WithDiagnostics broadcasts session traffic to b, typically a
// diagnostics.Hub serving a Unix-domain socket for `terminal attach`.
func WithDiagnostics(b filter.Broadcaster) Option {
	return func(o *options) { o.diagBroker = b }
}

// New constructs an App sized width x height.
func New(width, height int, opts ...Option) *App {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	e := emu.NewEmulator(width, height)
	a := &App{
		emulator: e,
		engine:   render.New(e, o.theme),
		router:   input.NewRouter(),
	}

	var filters []filter.Filter
	filters = append(filters, filter.NewRenderOptimizer())
	if o.recorder != nil {
		filters = append(filters, filter.NewRecordingFilter(o.recorder, o.recordNow, o.recordIn))
	}
	if o.diagBroker != nil {
		filters = append(filters, filter.NewDiagnosticsFilter(o.diagBroker))
	}
	filters = append(filters, o.filters...)
	a.filters = filter.NewChain(filters...)

	return a
}

// Emulator exposes the underlying terminal buffer for read access (e.g.
// dumping the grid to a snapshot).
func (a *App) Emulator() *emu.Emulator { return a.emulator }

// Router exposes the input router so a host can register additional
// focus or binding logic beyond what RenderFrame wires up.
func (a *App) Router() *input.Router { return a.router }

// RenderFrame builds a new UI tree, reconciles it against the previous
// frame, and applies the resulting tokens through the filter chain.
// Returns the tokens a presentation layer should actually draw.
func (a *App) RenderFrame(build render.BuildFunc) []emu.AppliedToken {
	applied := a.engine.RenderFrame(build)
	a.router.SetRoot(a.engine.Root())
	return a.filters.OnOutput(applied)
}

// Feed tokenizes raw bytes from a child process's stdout, applies them
// to the emulator, and runs the result through the filter chain.
func (a *App) Feed(data []byte) []emu.AppliedToken {
	var applied []emu.AppliedToken
	for _, tok := range token.Tokenize(data) {
		applied = append(applied, a.emulator.Apply(tok))
	}
	return a.filters.OnOutput(applied)
}

// SendKey routes a named key event through the input router.
func (a *App) SendKey(name, printable string) bool {
	return a.router.DispatchKey(input.KeyEvent{Name: name, Printable: printable})
}

// SendInput runs raw bytes a host read from stdin through the filter
// chain's input hooks (e.g. recording) before the caller forwards them
// to a child process.
func (a *App) SendInput(data []byte) []byte {
	return a.filters.OnInput(data)
}

// Click sends a mouse event at the given grid coordinates through the
// input router.
func (a *App) Click(x, y int, button, action string) bool {
	return a.router.DispatchMouse(input.MouseEvent{X: x, Y: y, Button: button, Action: action})
}

// Resize updates the emulator's grid size and notifies the filter chain.
func (a *App) Resize(width, height int) {
	a.emulator.Grid.Resize(width, height)
	a.filters.OnResize(width, height)
}

// Start notifies the filter chain that a session has begun.
func (a *App) Start(meta filter.SessionMeta) { a.filters.OnSessionStart(meta) }

// End notifies the filter chain that the session has ended, flushing
// any buffered recorder or diagnostics state.
func (a *App) End() { a.filters.OnSessionEnd() }

// Quitting reports whether a binding action requested the application
// quit (see widget.FocusRequester.Quit).
func (a *App) Quitting() bool { return a.router.Quitting() }
