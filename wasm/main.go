//go:build js && wasm

package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"syscall/js"

	debugterm "github.com/danielgatis/go-debugterm"
)

// Global session registry
var sessions = make(map[int]*session)
var nextSessionID = 1

// session is one visualizer: a main echo window plus named windows.
type session struct {
	fonts      *debugterm.FontCache
	main       *debugterm.TermWindow
	dispatcher *debugterm.Dispatcher
	queue      *debugterm.LineQueue
	lines      *debugterm.LineAssembler
	handlers   *jsHandlers
	recording  *debugterm.MemoryRecording
}

// recordingLimit bounds the input kept per session for recording(id).
const recordingLimit = 1 << 20

func main() {
	js.Global().Set("DebugTerm", js.ValueOf(map[string]interface{}{
		// Session lifecycle
		"create":  js.FuncOf(createSession),
		"destroy": js.FuncOf(destroySession),

		// Input processing
		"feed": js.FuncOf(feed),

		// Windows
		"windows":    js.FuncOf(windows),
		"title":      js.FuncOf(title),
		"size":       js.FuncOf(size),
		"cursorPos":  js.FuncOf(cursorPos),
		"getString":  js.FuncOf(getString),
		"snapshot":   js.FuncOf(snapshotJSON),
		"screenshot": js.FuncOf(screenshot),

		// Recording
		"recording":      js.FuncOf(recording),
		"clearRecording": js.FuncOf(clearRecording),

		// Handler registration
		"onRecording": js.FuncOf(onRecording),
		"onError":     js.FuncOf(onError),
	}))

	// Keep the program running
	select {}
}

// ============================================================================
// Session Lifecycle
// ============================================================================

// createSession(prefix?: string, typeface?: string, size?: number): number
func createSession(_ js.Value, args []js.Value) interface{} {
	prefix := debugterm.DefaultCommandPrefix
	desc := debugterm.FontDescriptor{Typeface: debugterm.BasicTypeface, Size: 13}
	if len(args) >= 1 && args[0].Type() == js.TypeString {
		prefix = args[0].String()
	}
	if len(args) >= 3 {
		desc = debugterm.FontDescriptor{Typeface: args[1].String(), Size: args[2].Int()}
	}

	fonts := debugterm.NewFontCache()
	opts := []debugterm.WindowOption{debugterm.WithWindowFont(desc)}
	mainWin, err := debugterm.NewMainWindow(fonts, opts...)
	if err != nil {
		return -1
	}

	queue := &debugterm.LineQueue{}
	id := nextSessionID
	nextSessionID++
	sessions[id] = &session{
		fonts:      fonts,
		main:       mainWin,
		dispatcher: debugterm.NewDispatcher(fonts, opts, debugterm.WithCommandPrefix(prefix)),
		queue:      queue,
		lines:      debugterm.NewLineAssembler(mainWin.Terminal(), queue),
		handlers:   newJSHandlers(),
		recording:  debugterm.NewMemoryRecording(recordingLimit),
	}
	return id
}

func destroySession(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	id := args[0].Int()
	if s := sessions[id]; s != nil {
		s.dispatcher.CloseAll()
		s.main.Close()
	}
	delete(sessions, id)
	return nil
}

func getSession(id int) *session {
	return sessions[id]
}

// window resolves a window name; an empty name is the main window.
func (s *session) window(name string) debugterm.Window {
	if name == "" {
		return s.main
	}
	w, ok := s.dispatcher.Window(name)
	if !ok {
		return nil
	}
	return w
}

func lookup(args []js.Value) debugterm.Window {
	if len(args) < 1 {
		return nil
	}
	s := getSession(args[0].Int())
	if s == nil {
		return nil
	}
	name := ""
	if len(args) >= 2 {
		name = args[1].String()
	}
	return s.window(name)
}

// ============================================================================
// Input Processing
// ============================================================================

// feed(id, text): echoes text to the main window and dispatches every
// completed line. Returns the number of failed lines.
func feed(_ js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return -1
	}
	s := getSession(args[0].Int())
	if s == nil {
		return -1
	}

	text := args[1].String()
	s.recording.Record([]byte(text))
	s.handlers.recording.Record([]byte(text))
	s.lines.FeedString(text)

	failed := 0
	for _, line := range s.queue.Drain() {
		if err := s.dispatcher.Dispatch(line); err != nil {
			failed++
			s.handlers.errors.Report(line, err)
		}
	}
	return failed
}

// ============================================================================
// Windows
// ============================================================================

func windows(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	s := getSession(args[0].Int())
	if s == nil {
		return nil
	}
	names := s.dispatcher.Names()
	result := make([]interface{}, len(names))
	for i, name := range names {
		result[i] = name
	}
	return result
}

func title(_ js.Value, args []js.Value) interface{} {
	w := lookup(args)
	if w == nil {
		return ""
	}
	return w.Title()
}

func size(_ js.Value, args []js.Value) interface{} {
	w := lookup(args)
	if w == nil {
		return nil
	}
	dim := w.Terminal().Size()
	px := dim.PixelSize(w.Font().GlyphDims())
	return map[string]interface{}{
		"cols":   dim.Cols,
		"rows":   dim.Rows,
		"width":  px.Width,
		"height": px.Height,
	}
}

func cursorPos(_ js.Value, args []js.Value) interface{} {
	w := lookup(args)
	if w == nil {
		return nil
	}
	x, y := w.Terminal().CursorPos()
	return map[string]interface{}{
		"x": x,
		"y": y,
	}
}

func getString(_ js.Value, args []js.Value) interface{} {
	w := lookup(args)
	if w == nil {
		return ""
	}
	return w.Terminal().String()
}

// snapshot(id, name, detail?: "text"|"styled"|"full"): string
func snapshotJSON(_ js.Value, args []js.Value) interface{} {
	w := lookup(args)
	if w == nil {
		return ""
	}

	detail := debugterm.SnapshotDetailStyled
	if len(args) >= 3 {
		switch args[2].String() {
		case "text":
			detail = debugterm.SnapshotDetailText
		case "styled":
			detail = debugterm.SnapshotDetailStyled
		case "full":
			detail = debugterm.SnapshotDetailFull
		}
	}

	data, err := json.Marshal(w.Terminal().Snapshot(detail))
	if err != nil {
		return ""
	}
	return string(data)
}

// screenshot(id, name): Uint8Array with PNG data
func screenshot(_ js.Value, args []js.Value) interface{} {
	w := lookup(args)
	if w == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, debugterm.Screenshot(w.Terminal(), w.Font().Face())); err != nil {
		return nil
	}
	arr := js.Global().Get("Uint8Array").New(buf.Len())
	js.CopyBytesToJS(arr, buf.Bytes())
	return arr
}

// ============================================================================
// Recording
// ============================================================================

// recording(id): Uint8Array with the most recent input of the session
func recording(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	s := getSession(args[0].Int())
	if s == nil {
		return nil
	}
	data := s.recording.Data()
	arr := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)
	return arr
}

func clearRecording(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	if s := getSession(args[0].Int()); s != nil {
		s.recording.Reset()
	}
	return nil
}
