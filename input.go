package debugterm

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"
)

// LineQueue is a FIFO of complete input lines shared between the reader
// goroutine and the main loop.
type LineQueue struct {
	mu    sync.Mutex
	lines []string
}

// Push appends a line.
func (q *LineQueue) Push(line string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.lines = append(q.lines, line)
}

// Drain removes and returns every queued line in arrival order.
func (q *LineQueue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	lines := q.lines
	q.lines = nil
	return lines
}

// Len returns the number of queued lines.
func (q *LineQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines)
}

// LineAssembler turns a character stream into lines. Every character except
// NUL is echoed to the main terminal. NUL and '\n' end a line, '\r' is
// dropped and empty lines are not queued.
type LineAssembler struct {
	echo  *Terminal
	queue *LineQueue
	line  strings.Builder
}

// NewLineAssembler creates an assembler. echo may be nil.
func NewLineAssembler(echo *Terminal, queue *LineQueue) *LineAssembler {
	return &LineAssembler{echo: echo, queue: queue}
}

// Feed handles one character.
func (a *LineAssembler) Feed(r rune) {
	if r != 0 && a.echo != nil {
		a.echo.PutChar(r)
	}

	switch r {
	case 0, '\n':
		a.Flush()
	case '\r':
	default:
		a.line.WriteRune(r)
	}
}

// FeedString handles every character of s.
func (a *LineAssembler) FeedString(s string) {
	for _, r := range s {
		a.Feed(r)
	}
}

// Flush queues the pending partial line, if any.
func (a *LineAssembler) Flush() {
	if a.line.Len() > 0 {
		a.queue.Push(a.line.String())
		a.line.Reset()
	}
}

// LineReader reads characters from a stream into a LineAssembler.
type LineReader struct {
	r         *bufio.Reader
	lines     *LineAssembler
	recording RecordingProvider
}

// ReaderOption configures a LineReader.
type ReaderOption func(*LineReader)

// WithRecording copies every byte read from the stream to p, before it is
// decoded.
func WithRecording(p RecordingProvider) ReaderOption {
	return func(lr *LineReader) {
		lr.recording = p
	}
}

// NewLineReader creates a reader. echo may be nil.
func NewLineReader(r io.Reader, echo *Terminal, queue *LineQueue, opts ...ReaderOption) *LineReader {
	lr := &LineReader{
		lines:     NewLineAssembler(echo, queue),
		recording: NoopRecording{},
	}
	for _, opt := range opts {
		opt(lr)
	}
	if _, ok := lr.recording.(NoopRecording); !ok {
		r = io.TeeReader(r, recordingWriter{lr.recording})
	}
	lr.r = bufio.NewReader(r)
	return lr
}

// Run reads until the stream ends. A pending partial line is queued at end
// of stream. Run returns nil on io.EOF and the read error otherwise.
func (lr *LineReader) Run() error {
	for {
		r, _, err := lr.r.ReadRune()
		if err != nil {
			lr.lines.Flush()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		lr.lines.Feed(r)
	}
}
