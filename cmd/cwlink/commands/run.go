package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/haivivi/cwlink/pkg/audio/nulldev"
	"github.com/haivivi/cwlink/pkg/audio/portaudio"
	"github.com/haivivi/cwlink/pkg/audio/wavrec"
	"github.com/haivivi/cwlink/pkg/bridge"
	"github.com/haivivi/cwlink/pkg/cli"
	"github.com/haivivi/cwlink/pkg/console"
	"github.com/haivivi/cwlink/pkg/keyer"
	"github.com/haivivi/cwlink/pkg/monitor"
)

// logLines is how many log lines the terminal console keeps.
const logLines = 200

func runLink(cmd *cobra.Command, args []string) error {
	port, host, ok := parseArgs(args)
	if !ok {
		printUsage(cmd.ErrOrStderr())
		return nil
	}

	cctx, err := getContext()
	if err != nil {
		return err
	}
	opts, err := resolveRunOptions(cctx, cmd.Flags())
	if err != nil {
		return err
	}

	if opts.Console == "terminal" && !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("terminal console needs an interactive terminal; use --console window or none")
	}

	// Logs go to the TUI while the terminal console owns the screen.
	var (
		logWriter *cli.LogWriter
		logOut    io.Writer = os.Stderr
	)
	if opts.Console == "terminal" {
		logWriter = cli.NewLogWriter(logLines)
		logOut = logWriter
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	sessionID := uuid.NewString()

	capture, playback, closeAudio, err := openAudio(opts)
	if err != nil {
		return err
	}
	defer closeAudio()

	bopts := []bridge.Option{
		bridge.WithLogger(bridge.SlogLogger(logger, sessionID)),
		bridge.WithSessionID(sessionID),
	}
	if opts.Record != "" {
		rec, path, err := openRecorder(opts.Record, sessionID)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Warn("close recording", "error", err)
			}
		}()
		cli.PrintInfo("Recording peer audio to %s", path)
		bopts = append(bopts, bridge.WithRecorder(rec))
	}

	b := bridge.New(bridge.Config{
		Port:          port,
		Host:          host,
		BindHost:      opts.Bind,
		Keyer:         opts.keyerConfig(),
		SidetonePrime: opts.Prime,
	}, capture, playback, bopts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.Monitor != "" {
		srv := monitor.New(b, monitor.WithLogger(logger))
		go func() {
			if err := srv.ListenAndServe(ctx, opts.Monitor); err != nil {
				logger.Error("monitor stopped", "error", err)
			}
		}()
	}

	errc := make(chan error, 1)
	go func() {
		errc <- b.Run(ctx)
	}()

	var consoleErr error
	switch opts.Console {
	case "window":
		consoleErr = console.RunWindow(ctx, b)
	case "terminal":
		consoleErr = console.RunTerminal(ctx, b, logWriter)
	default:
		<-b.Done()
	}

	// The console may have exited on its own; make sure the bridge follows.
	select {
	case <-b.Done():
	default:
		b.Post(keyer.Press(keyer.KeyQuit))
	}
	runErr := <-errc

	if consoleErr != nil {
		return fmt.Errorf("console: %w", consoleErr)
	}
	return runErr
}

// openAudio opens the capture and playback devices of the selected backend.
// The returned func releases them.
func openAudio(o runOptions) (bridge.Capture, bridge.Playback, func(), error) {
	if o.Audio == "null" {
		return &nulldev.Capture{}, &nulldev.Playback{}, func() {}, nil
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, nil, nil, fmt.Errorf("portaudio: %w", err)
	}
	in, err := portaudio.NewInputStream(o.InputDevice)
	if err != nil {
		portaudio.Terminate()
		return nil, nil, nil, fmt.Errorf("open input: %w", err)
	}
	out, err := portaudio.NewOutputStream(o.OutputDevice)
	if err != nil {
		in.Close()
		portaudio.Terminate()
		return nil, nil, nil, fmt.Errorf("open output: %w", err)
	}
	release := func() {
		out.Close()
		in.Close()
		portaudio.Terminate()
	}
	return in, out, release, nil
}

// openRecorder creates the WAV recorder. "auto" records into the recordings
// directory under a name derived from the session ID.
func openRecorder(path, sessionID string) (*wavrec.Recorder, string, error) {
	if path == recordAuto {
		paths, err := cli.NewPaths(appName)
		if err != nil {
			return nil, "", err
		}
		if err := paths.EnsureRecordingsDir(); err != nil {
			return nil, "", fmt.Errorf("recordings dir: %w", err)
		}
		path = paths.RecordingPath(sessionID + ".wav")
	}
	rec, err := wavrec.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("record: %w", err)
	}
	return rec, path, nil
}
