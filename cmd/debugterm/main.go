package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	debugterm "github.com/danielgatis/go-debugterm"
)

type rootOptions struct {
	configPath  string
	fontDir     string
	typeface    string
	textSize    int
	interval    time.Duration
	prefix      string
	logLevel    string
	headless    bool
	snapshotDir string
	record      string
	listen      string
}

// apply overrides cfg with the flags set on the command line.
func (o *rootOptions) apply(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("font-dir") {
		cfg.FontDir = o.fontDir
	}
	if flags.Changed("typeface") {
		cfg.Typeface = o.typeface
	}
	if flags.Changed("text-size") {
		cfg.TextSize = o.textSize
	}
	if flags.Changed("interval") {
		cfg.Interval = o.interval
	}
	if flags.Changed("prefix") {
		cfg.CommandPrefix = &o.prefix
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("headless") {
		cfg.Headless = o.headless
	}
	if flags.Changed("snapshot-dir") {
		cfg.SnapshotDir = o.snapshotDir
	}
	if flags.Changed("record") {
		cfg.Record = o.record
	}
	if flags.Changed("listen") {
		cfg.Listen = o.listen
	}
}

func main() {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "debugterm [flags] [-- command [args...]]",
		Short: "Show debug output written to stdin in terminal windows",
		Long: "debugterm echoes everything read from stdin to a main window. Lines starting\n" +
			"with the command prefix create and write to named terminal windows:\n\n" +
			"  `TERM log TITLE 'Worker' SIZE 60 20 COLOR ORANGE BLACK\n" +
			"  `log 'hello' 10\n\n" +
			"When a command is given it runs on a pseudo-terminal and its output is read\n" +
			"instead of stdin. With --listen, every websocket message on /ws is read as a line.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if len(args) > 0 {
				cfg.Command = args
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, os.Stdin)
		},
	}
	defaultConfig := os.Getenv("DEBUGTERM_CONFIG")
	rootCmd.Flags().StringVar(&opts.configPath, "config", defaultConfig, "path to YAML config file")
	rootCmd.Flags().StringVar(&opts.fontDir, "font-dir", "", "directory with <typeface>.ttf files (built-in fonts are used as fallback)")
	rootCmd.Flags().StringVar(&opts.typeface, "typeface", debugterm.DefaultTypeface, "typeface for new windows (GoMono or Basic built in)")
	rootCmd.Flags().IntVar(&opts.textSize, "text-size", debugterm.DefaultTextSize, "text size in points for new windows")
	rootCmd.Flags().DurationVar(&opts.interval, "interval", debugterm.DefaultInterval, "main loop period")
	rootCmd.Flags().StringVar(&opts.prefix, "prefix", debugterm.DefaultCommandPrefix, "command prefix; empty dispatches every line")
	rootCmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&opts.headless, "headless", false, "run without windows; exit when stdin ends")
	rootCmd.Flags().StringVar(&opts.snapshotDir, "snapshot-dir", "", "write a JSON snapshot and a PNG of every window here on exit")
	rootCmd.Flags().StringVar(&opts.record, "record", "", "copy raw input to this file")
	rootCmd.Flags().StringVar(&opts.listen, "listen", "", "also accept lines from websocket clients on this address")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *Config, input io.Reader) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	fonts := debugterm.NewFontCache(
		debugterm.WithFontLoader(cfg.FontLoader()),
		debugterm.WithFontLogger(logger),
	)
	windowOpts := []debugterm.WindowOption{
		debugterm.WithWindowFont(cfg.Font()),
		debugterm.WithWindowLogger(logger),
	}

	mainWin, err := debugterm.NewMainWindow(fonts, append(windowOpts, debugterm.WithWindowSize(cfg.MainCols, cfg.MainRows))...)
	if err != nil {
		return err
	}
	dispatcher := debugterm.NewDispatcher(fonts, windowOpts,
		debugterm.WithCommandPrefix(cfg.Prefix()),
		debugterm.WithDispatcherLogger(logger),
	)

	var readerOpts []debugterm.ReaderOption
	if cfg.Record != "" {
		f, err := os.Create(cfg.Record)
		if err != nil {
			mainWin.Close()
			return fmt.Errorf("record: %w", err)
		}
		defer f.Close()
		readerOpts = append(readerOpts, debugterm.WithRecording(debugterm.NewWriterRecording(f)))
	}

	hostOpts := []debugterm.HostOption{
		debugterm.WithInterval(cfg.Interval),
		debugterm.WithHostLogger(logger),
	}
	if cfg.SnapshotDir != "" {
		hostOpts = append(hostOpts, debugterm.WithExitHook(func(name string, w debugterm.Window) {
			if err := writeSnapshot(cfg.SnapshotDir, name, w); err != nil {
				logger.Error("snapshot failed", "window", w.Title(), "err", err)
			}
		}))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in, stopInput, err := openInput(ctx, cfg, input, mainWin.Terminal().Size(), logger)
	if err != nil {
		mainWin.Close()
		return err
	}
	defer stopInput()

	queue := &debugterm.LineQueue{}
	reader := debugterm.NewLineReader(in, mainWin.Terminal(), queue, readerOpts...)

	if cfg.Headless {
		host := debugterm.NewHost(mainWin, dispatcher, queue, hostOpts...)
		go func() {
			if err := reader.Run(); err != nil {
				logger.Error("reading input failed", "err", err)
			}
			cancel()
		}()
		return host.Run(ctx)
	}

	a := app.NewWithID("debugterm")
	host := debugterm.NewHost(mainWin, dispatcher, queue, append(hostOpts, debugterm.WithDisplay(newFyneDisplay(a)))...)

	go func() {
		if err := reader.Run(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
			logger.Error("reading input failed", "err", err)
		}
		logger.Info("input closed")
	}()

	errc := make(chan error, 1)
	go func() {
		errc <- host.Run(ctx)
		fyne.Do(a.Quit)
	}()

	a.Run()
	cancel()
	return <-errc
}
