package debugterm

import (
	"bytes"
	"image"
	"io"
	"sync"
)

// --- Display Provider ---

// SurfaceOptions describes a window to open.
type SurfaceOptions struct {
	Title     string
	Size      PixelSize
	Resizable bool

	// OnResize is called with the new pixel size after the user resizes the
	// window. It may be called from any goroutine.
	OnResize func(PixelSize)

	// OnClose is called when the user closes the window. It may be called
	// from any goroutine.
	OnClose func()
}

// Display creates host windows for terminals.
type Display interface {
	// Open creates a window identified by name.
	Open(name string, opts SurfaceOptions) (Surface, error)
}

// Surface is one host window showing a rendered terminal.
type Surface interface {
	// SetTitle changes the window title.
	SetTitle(title string)
	// SetSize changes the window content size in pixels.
	SetSize(size PixelSize)
	// SetPosition is a placement hint; surfaces that cannot place windows ignore it.
	SetPosition(x, y int)
	// Present shows img. Only pixels inside changed differ from the previous frame.
	// img is reused by the caller after Present returns.
	Present(img *image.RGBA, changed image.Rectangle)
	// Close destroys the window.
	Close()
}

// NoopDisplay opens surfaces that discard everything.
type NoopDisplay struct{}

func (NoopDisplay) Open(string, SurfaceOptions) (Surface, error) {
	return NoopSurface{}, nil
}

// NoopSurface discards all drawing.
type NoopSurface struct{}

func (NoopSurface) SetTitle(string)                      {}
func (NoopSurface) SetSize(PixelSize)                    {}
func (NoopSurface) SetPosition(int, int)                 {}
func (NoopSurface) Present(*image.RGBA, image.Rectangle) {}
func (NoopSurface) Close()                               {}

// --- Recording Provider ---

// RecordingProvider captures raw input bytes before they are echoed or queued.
type RecordingProvider interface {
	// Record appends raw bytes to the recording.
	Record(data []byte)
}

// NoopRecording discards all input recordings.
type NoopRecording struct{}

func (NoopRecording) Record([]byte) {}

// MemoryRecording keeps the most recent input in memory. With a positive
// limit only the last limit bytes are kept.
type MemoryRecording struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

// NewMemoryRecording creates a recording. limit <= 0 keeps everything.
func NewMemoryRecording(limit int) *MemoryRecording {
	return &MemoryRecording{limit: limit}
}

func (r *MemoryRecording) Record(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Write(data)
	if over := r.buf.Len() - r.limit; r.limit > 0 && over > 0 {
		r.buf.Next(over)
	}
}

// Data returns a copy of the kept bytes.
func (r *MemoryRecording) Data() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return bytes.Clone(r.buf.Bytes())
}

// Reset drops the kept bytes.
func (r *MemoryRecording) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Reset()
}

// WriterRecording copies raw input to w, typically a file.
// Write errors are dropped; recording never interrupts input.
type WriterRecording struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterRecording creates a recording that writes to w.
func NewWriterRecording(w io.Writer) *WriterRecording {
	return &WriterRecording{w: w}
}

// Record writes data to the underlying writer.
func (r *WriterRecording) Record(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.w.Write(data)
}

// recordingWriter adapts a RecordingProvider to io.Writer.
type recordingWriter struct {
	p RecordingProvider
}

func (w recordingWriter) Write(data []byte) (int, error) {
	w.p.Record(data)
	return len(data), nil
}

// Ensure implementations satisfy their interfaces
var _ Display = NoopDisplay{}
var _ Surface = NoopSurface{}
var _ RecordingProvider = (*NoopRecording)(nil)
var _ RecordingProvider = (*MemoryRecording)(nil)
var _ RecordingProvider = (*WriterRecording)(nil)
