package debugterm

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/image/font"
)

// DefaultInterval is the main loop period.
const DefaultInterval = 16 * time.Millisecond

// mainSurface keys the main window's surface. Window names are never empty.
const mainSurface = ""

// Host runs the main loop: it drains queued lines, dispatches them and keeps
// one surface per window up to date.
type Host struct {
	main       *TermWindow
	dispatcher *Dispatcher
	queue      *LineQueue
	display    Display
	interval   time.Duration
	logger     *slog.Logger
	onExit     func(name string, w Window)

	mu     sync.Mutex
	events []func()

	surfaces map[string]*surfaceState
	quit     bool
}

type surfaceState struct {
	win     Window
	surface Surface
	painter *ImagePainter
	face    font.Face
	title   string
	size    PixelSize
	pos     image.Point
	hasPos  bool
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithDisplay sets the display surfaces are opened on. Defaults to NoopDisplay.
func WithDisplay(d Display) HostOption {
	return func(h *Host) {
		h.display = d
	}
}

// WithInterval sets the main loop period. Defaults to DefaultInterval.
func WithInterval(d time.Duration) HostOption {
	return func(h *Host) {
		if d > 0 {
			h.interval = d
		}
	}
}

// WithHostLogger sets the logger. Defaults to slog.Default().
func WithHostLogger(l *slog.Logger) HostOption {
	return func(h *Host) {
		h.logger = l
	}
}

// WithExitHook sets a function called for every window just before
// teardown closes it. The main window is reported with an empty name.
func WithExitHook(fn func(name string, w Window)) HostOption {
	return func(h *Host) {
		h.onExit = fn
	}
}

// NewHost creates a host for the main window, the dispatcher's windows and
// the lines pushed to queue.
func NewHost(main *TermWindow, d *Dispatcher, queue *LineQueue, opts ...HostOption) *Host {
	h := &Host{
		main:       main,
		dispatcher: d,
		queue:      queue,
		display:    NoopDisplay{},
		interval:   DefaultInterval,
		logger:     slog.Default(),
		surfaces:   make(map[string]*surfaceState),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run steps the loop every interval until ctx is done or the main window is
// closed, then closes every surface and window. It returns an error only if
// the main window cannot be opened.
func (h *Host) Run(ctx context.Context) error {
	defer h.teardown()

	if err := h.open(mainSurface, h.main); err != nil {
		return err
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		h.Step()
		if h.Done() {
			h.logger.Info("main window closed")
			return nil
		}
		select {
		case <-ctx.Done():
			// Lines queued before cancellation are still shown.
			h.Step()
			return nil
		case <-ticker.C:
		}
	}
}

// Done reports whether the main window has been closed.
func (h *Host) Done() bool {
	return h.quit
}

// Step runs one loop iteration: pending surface events, queued lines,
// surface sync and repaint. Errors from a line are logged and the line is
// dropped.
func (h *Host) Step() {
	for _, ev := range h.takeEvents() {
		ev()
	}
	if h.quit {
		return
	}

	for _, line := range h.queue.Drain() {
		if err := h.dispatcher.Dispatch(line); err != nil {
			h.logger.Error("command failed", "line", line, "err", err)
		}
	}

	h.sync()

	for _, name := range h.dispatcher.Names() {
		if st, ok := h.surfaces[name]; ok {
			h.repaint(st)
		}
	}
	if st, ok := h.surfaces[mainSurface]; ok {
		h.repaint(st)
	}
}

// post queues fn to run on the loop goroutine. Safe from any goroutine.
func (h *Host) post(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, fn)
}

func (h *Host) takeEvents() []func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	events := h.events
	h.events = nil
	return events
}

// sync opens surfaces for new windows, reopens them for replaced windows and
// closes them for removed ones.
func (h *Host) sync() {
	for name, st := range h.surfaces {
		if name == mainSurface {
			continue
		}
		if w, ok := h.dispatcher.Window(name); !ok || w != st.win {
			st.surface.Close()
			delete(h.surfaces, name)
		}
	}
	for _, name := range h.dispatcher.Names() {
		if _, ok := h.surfaces[name]; ok {
			continue
		}
		w, _ := h.dispatcher.Window(name)
		if err := h.open(name, w); err != nil {
			h.logger.Error("opening window failed", "name", name, "err", err)
			h.dispatcher.Remove(name)
		}
	}
}

func (h *Host) open(name string, w Window) error {
	painter := NewImagePainter(w.Font().Face())
	size := w.Terminal().Size().PixelSize(painter.GlyphSize())

	opts := SurfaceOptions{
		Title: w.Title(),
		Size:  size,
		OnClose: func() {
			h.post(func() { h.closed(name, w) })
		},
	}
	if w == Window(h.main) {
		opts.Resizable = true
		opts.OnResize = func(px PixelSize) {
			h.post(func() { h.main.HandleResize(px) })
		}
	}

	surface, err := h.display.Open(name, opts)
	if err != nil {
		return err
	}
	w.Terminal().MarkAllDirty()
	h.surfaces[name] = &surfaceState{
		win:     w,
		surface: surface,
		painter: painter,
		face:    w.Font().Face(),
		title:   opts.Title,
		size:    size,
	}
	return nil
}

// closed handles a user closing a surface. Closing the main window quits.
func (h *Host) closed(name string, w Window) {
	if name == mainSurface {
		h.quit = true
		return
	}
	if cur, ok := h.dispatcher.Window(name); ok && cur == w {
		h.dispatcher.Remove(name)
	}
}

func (h *Host) repaint(st *surfaceState) {
	w := st.win
	term := w.Terminal()

	if face := w.Font().Face(); face != st.face {
		st.painter.SetFace(face)
		st.face = face
		term.MarkAllDirty()
	}
	if title := w.Title(); title != st.title {
		st.surface.SetTitle(title)
		st.title = title
	}
	if pos, ok := w.Position(); ok && (!st.hasPos || pos != st.pos) {
		st.surface.SetPosition(pos.X, pos.Y)
		st.pos = pos
		st.hasPos = true
	}
	if size := term.Size().PixelSize(st.painter.GlyphSize()); size != st.size {
		st.surface.SetSize(size)
		st.size = size
	}

	if term.Repaint(st.painter) {
		st.surface.Present(st.painter.Image(), st.painter.Changed())
	}
}

// teardown closes every surface and window.
func (h *Host) teardown() {
	if h.onExit != nil {
		h.onExit(mainSurface, h.main)
		for _, name := range h.dispatcher.Names() {
			w, _ := h.dispatcher.Window(name)
			h.onExit(name, w)
		}
	}
	for name, st := range h.surfaces {
		st.surface.Close()
		delete(h.surfaces, name)
	}
	h.dispatcher.CloseAll()
	h.main.Close()
}
