//go:build js && wasm

package main

import (
	"syscall/js"

	debugterm "github.com/danielgatis/go-debugterm"
)

// jsHandlers holds the JavaScript callbacks of one session.
type jsHandlers struct {
	recording *jsRecordingProvider
	errors    *jsErrorHandler
}

func newJSHandlers() *jsHandlers {
	return &jsHandlers{
		recording: &jsRecordingProvider{},
		errors:    &jsErrorHandler{},
	}
}

func isSet(v js.Value) bool {
	return !v.IsUndefined() && !v.IsNull()
}

// ============================================================================
// Recording Provider - calls onRecording(data: Uint8Array)
// ============================================================================

type jsRecordingProvider struct {
	callback js.Value
}

func (p *jsRecordingProvider) Record(data []byte) {
	if !isSet(p.callback) {
		return
	}
	arr := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)
	p.callback.Invoke(arr)
}

var _ debugterm.RecordingProvider = (*jsRecordingProvider)(nil)

// ============================================================================
// Error Handler - calls onError(line: string, message: string)
// ============================================================================

type jsErrorHandler struct {
	callback js.Value
}

func (h *jsErrorHandler) Report(line string, err error) {
	if !isSet(h.callback) {
		return
	}
	h.callback.Invoke(line, err.Error())
}

// ============================================================================
// Handler Registration
// ============================================================================

func onRecording(_ js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	if s := getSession(args[0].Int()); s != nil {
		s.handlers.recording.callback = args[1]
	}
	return nil
}

func onError(_ js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	if s := getSession(args[0].Int()); s != nil {
		s.handlers.errors.callback = args[1]
	}
	return nil
}
