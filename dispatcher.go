package debugterm

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// DefaultCommandPrefix marks a line as a command. Lines without it are only
// echoed by the main window.
const DefaultCommandPrefix = "`"

// WindowFactory creates a window for a setup command.
type WindowFactory func(name string) (Window, error)

type windowType struct {
	kind   WindowKind
	create WindowFactory
}

// Dispatcher routes command lines to named windows. It is used from a
// single goroutine.
type Dispatcher struct {
	windows map[string]Window
	types   map[string]windowType
	prefix  string
	logger  *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithCommandPrefix sets the prefix a line must start with to be dispatched.
// An empty prefix dispatches every line.
func WithCommandPrefix(prefix string) DispatcherOption {
	return func(d *Dispatcher) {
		d.prefix = prefix
	}
}

// WithDispatcherLogger sets the logger. Defaults to slog.Default().
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithWindowType registers an extra window type tag.
func WithWindowType(tag string, kind WindowKind, f WindowFactory) DispatcherOption {
	return func(d *Dispatcher) {
		d.Register(tag, kind, f)
	}
}

// NewDispatcher creates a Dispatcher with the TERM window type registered.
// TERM windows are created with fonts and opts.
func NewDispatcher(fonts *FontCache, opts []WindowOption, dopts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		windows: make(map[string]Window),
		types:   make(map[string]windowType),
		prefix:  DefaultCommandPrefix,
		logger:  slog.Default(),
	}
	d.Register(KindTerminal.String(), KindTerminal, func(name string) (Window, error) {
		return NewTermWindow(name+" - TERM", fonts, append([]WindowOption{WithWindowLogger(d.logger)}, opts...)...)
	})
	for _, opt := range dopts {
		opt(d)
	}
	return d
}

// Register adds or replaces a window type. Tags are matched exactly.
func (d *Dispatcher) Register(tag string, kind WindowKind, f WindowFactory) {
	d.types[tag] = windowType{kind: kind, create: f}
}

// Dispatch handles one input line. A line is "<prefix><ident> <rest>".
// When ident names a window, rest is data for it. Otherwise ident is a window
// type and rest is "<name> <setup>": the named window is created, or replaced
// if its kind differs, and the setup is applied.
func (d *Dispatcher) Dispatch(line string) error {
	if !strings.HasPrefix(line, d.prefix) {
		return nil
	}
	line = line[len(d.prefix):]

	ident, rest, ok := strings.Cut(line, " ")
	if !ok || ident == "" {
		return nil
	}

	if w, ok := d.windows[ident]; ok {
		if err := w.ParseData(rest); err != nil {
			return fmt.Errorf("data for %q: %w", ident, err)
		}
		return nil
	}
	return d.setup(ident, rest)
}

func (d *Dispatcher) setup(tag, args string) error {
	name, setup, _ := strings.Cut(args, " ")
	if name == "" {
		return nil
	}

	typ, ok := d.types[tag]
	if !ok {
		return fmt.Errorf("%w: window type %q", ErrUnhandledSymbol, tag)
	}

	w, exists := d.windows[name]
	if !exists || w.Kind() != typ.kind {
		created, err := typ.create(name)
		if err != nil {
			return fmt.Errorf("creating %s %q: %w", tag, name, err)
		}
		if exists {
			d.logger.Info("replacing window", "name", name, "old", w.Kind(), "new", typ.kind)
			w.Close()
		} else {
			d.logger.Info("created window", "name", name, "type", tag)
		}
		d.windows[name] = created
		w = created
	}

	if err := w.ParseSetup(setup); err != nil {
		return fmt.Errorf("setup for %q: %w", name, err)
	}
	return nil
}

// Window returns the window registered under name.
func (d *Dispatcher) Window(name string) (Window, bool) {
	w, ok := d.windows[name]
	return w, ok
}

// Names returns the registered window names in sorted order.
func (d *Dispatcher) Names() []string {
	return slices.Sorted(maps.Keys(d.windows))
}

// Len returns the number of registered windows.
func (d *Dispatcher) Len() int {
	return len(d.windows)
}

// Remove closes and unregisters the named window. Unknown names are ignored.
func (d *Dispatcher) Remove(name string) {
	w, ok := d.windows[name]
	if !ok {
		return
	}
	w.Close()
	delete(d.windows, name)
	d.logger.Info("closed window", "name", name)
}

// CloseAll closes and unregisters every window.
func (d *Dispatcher) CloseAll() {
	for name, w := range d.windows {
		w.Close()
		delete(d.windows, name)
	}
}
