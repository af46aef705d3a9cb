package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/gorilla/websocket"

	debugterm "github.com/danielgatis/go-debugterm"
)

// inputMux merges several byte streams into one pipe. Each Write is
// delivered whole. The pipe is closed once every source has ended.
type inputMux struct {
	pr *io.PipeReader
	pw *io.PipeWriter

	mu     sync.Mutex
	wg     sync.WaitGroup
	logger *slog.Logger
}

func newInputMux(logger *slog.Logger) *inputMux {
	pr, pw := io.Pipe()
	return &inputMux{pr: pr, pw: pw, logger: logger}
}

func (m *inputMux) Read(p []byte) (int, error) {
	return m.pr.Read(p)
}

func (m *inputMux) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pw.Write(p)
}

// Copy forwards r until it ends.
func (m *inputMux) Copy(name string, r io.Reader) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if _, err := io.Copy(m, r); err != nil && !errors.Is(err, io.ErrClosedPipe) {
			m.logger.Error("input source failed", "source", name, "err", err)
		}
		m.logger.Debug("input source ended", "source", name)
	}()
}

// Seal closes the pipe after the last source ends. No source may be added
// afterwards.
func (m *inputMux) Seal() {
	go func() {
		m.wg.Wait()
		m.pw.Close()
	}()
}

// Close ends the stream right away.
func (m *inputMux) Close() error {
	return m.pr.Close()
}

// ptyReader reports the EIO a pty master returns after the child exits as EOF.
type ptyReader struct {
	r io.Reader
}

func (p ptyReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if errors.Is(err, syscall.EIO) {
		err = io.EOF
	}
	return n, err
}

// startCommand runs args on a pty of the given size. The returned stop
// function kills the child if it is still running.
func startCommand(ctx context.Context, args []string, size debugterm.Dimension, logger *slog.Logger) (io.Reader, func(), error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(size.Rows),
		Cols: uint16(size.Cols),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("start %s: %w", args[0], err)
	}
	logger.Info("command started", "cmd", args[0], "pid", cmd.Process.Pid)

	done := make(chan struct{})
	go func() {
		err := cmd.Wait()
		logger.Info("command exited", "cmd", args[0], "err", err)
		close(done)
	}()

	stop := func() {
		select {
		case <-done:
		default:
			cmd.Process.Kill()
			<-done
		}
		ptmx.Close()
	}
	return ptyReader{r: ptmx}, stop, nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsHandler writes every message of every connection to w as one line.
func wsHandler(w io.Writer, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(rw, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "err", err)
			return
		}
		defer conn.Close()
		logger.Info("websocket client connected", "remote", r.RemoteAddr)

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("websocket read failed", "err", err)
				}
				return
			}
			if len(data) == 0 || data[len(data)-1] != '\n' {
				data = append(data, '\n')
			}
			if _, err := w.Write(data); err != nil {
				return
			}
		}
	})
}

// serveWebsocket accepts websocket clients on addr until ctx ends.
func serveWebsocket(ctx context.Context, addr string, m *inputMux, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/ws", wsHandler(m, logger))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info("websocket input listening", "addr", "ws://"+ln.Addr().String()+"/ws")

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("websocket server failed", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	return nil
}

// openInput builds the character stream the visualizer reads. A configured
// command replaces stdin; the websocket listener is added to either.
func openInput(ctx context.Context, cfg *Config, stdin io.Reader, size debugterm.Dimension, logger *slog.Logger) (io.Reader, func(), error) {
	m := newInputMux(logger)
	stops := []func(){func() { m.Close() }}
	stop := func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}

	if len(cfg.Command) > 0 {
		r, stopCmd, err := startCommand(ctx, cfg.Command, size, logger)
		if err != nil {
			stop()
			return nil, nil, err
		}
		stops = append(stops, stopCmd)
		m.Copy("command", r)
	} else {
		m.Copy("stdin", stdin)
	}

	if cfg.Listen != "" {
		if err := serveWebsocket(ctx, cfg.Listen, m, logger); err != nil {
			stop()
			return nil, nil, err
		}
	}

	m.Seal()
	return m, stop, nil
}
