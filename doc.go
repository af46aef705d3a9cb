// Package debugterm provides text terminals for printf-style debugging of
// programs that write a command stream to a pipe.
//
// A program under debug writes lines to the visualizer's standard input.
// Every character is echoed to a main terminal window. Lines starting with
// the command prefix (a backtick by default) create, configure and write to
// named terminal windows.
//
// # Quick Start
//
// Create a font cache, a window and feed it data commands:
//
//	fonts := debugterm.NewFontCache()
//	w, err := debugterm.NewTermWindow("log", fonts)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	w.ParseData("'Hello' 10 'World'")
//	fmt.Println(w.Terminal().String()) // "Hello\nWorld"
//
// # Command Protocol
//
// One line is one command. For a name that is already registered:
//
//	`<name> <data tokens>
//
// Otherwise the line creates or reconfigures a window:
//
//	`TERM <name> <setup clauses>
//
// Tokens are separated by spaces. A token starting with a quote is a STRING,
// one starting with a sign or a digit is a NUMBER and anything else is a
// SYMBOL. Strings may escape a quote or a backslash with a backslash.
//
// Setup clauses:
//
//	POS x y              placement hint for the host window
//	TITLE 'text'         window title
//	SIZE cols rows       grid size
//	TEXTSIZE points      font size
//	COLOR c0 [.. c7]     color pairs: fg0 bg0 fg1 bg1 ...
//
// Colors are a packed 0xBBGGRR number or a name with an optional intensity
// (0-15, 8 is the base color): RED, RED 4, ORANGE 12.
//
// Data tokens:
//
//	NUMBER               one character code
//	'text'               characters
//	CLEAR, HOME, PAIR n  named control commands
//
// # Terminal
//
// [Terminal] is a character grid with a cursor and a dirty rectangle. Codes
// below 32 are control codes:
//
//	0      clear and home
//	1      home
//	4-7    select color pair 0-3
//	8      backspace
//	9      tab to the next multiple of 8
//	10,13  new line; CR LF and LF CR count once
//
// Anything else is written at the cursor. Writing past the last column wraps
// and writing past the last row scrolls.
//
// # Rendering
//
// [Terminal.Repaint] hands the dirty region to a [Painter] and marks the grid
// clean. [ImagePainter] draws cells into an [image.RGBA] with a
// [golang.org/x/image/font.Face]. [Screenshot] renders a whole grid.
//
// # Fonts
//
// [FontCache] loads each [FontDescriptor] once and hands out reference
// counted [FontHandle] values. By default fonts come from the Go Mono family
// built into golang.org/x/image; [FileLoader] loads TrueType files from a
// directory.
//
// # Host
//
// [Host] runs the main loop against a [Display]. [LineReader] reads the input
// stream on its own goroutine, echoes to the main terminal and pushes lines
// to a [LineQueue]; the host drains the queue, dispatches lines through a
// [Dispatcher] and presents dirty windows about every 16ms.
//
// # Snapshots
//
// Capture a terminal for serialization:
//
//	snap := term.Snapshot(debugterm.SnapshotDetailStyled)
//	data, _ := json.Marshal(snap)
//
// # Thread Safety
//
// Terminal methods are safe for concurrent use; the main terminal is written
// by the reader goroutine and painted by the main loop. Windows, the
// dispatcher and the host are used from the main loop only.
package debugterm
