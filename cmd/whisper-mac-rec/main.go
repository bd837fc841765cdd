// Command whisper-mac-rec records the system default microphone to a
// WAV file, with permission handling and a live level readout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/lmittmann/tint"

	whispermac "github.com/Explosion-Scratch/whisper-mac"
	"github.com/Explosion-Scratch/whisper-mac/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a config file (yaml/toml/json)")
		check      = flag.Bool("check", false, "print microphone permission status and exit")
		request    = flag.Bool("request", false, "request microphone permission and exit")
		duration   = flag.Duration("duration", 0, "stop after this long (0 = until Ctrl-C)")
		rate       = flag.Float64("rate", 0, "sample rate in Hz (overrides config)")
		frames     = flag.Int("frames", 0, "frames per buffer (overrides config)")
		output     = flag.String("out", "", "output WAV path (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *rate != 0 {
		cfg.SampleRate = *rate
	}
	if *frames != 0 {
		cfg.BufferFrames = *frames
	}
	if *output != "" {
		cfg.Output = *output
	}

	logFile, err := configureLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	engine, err := whispermac.New(nil)
	if err != nil {
		slog.Error("failed to create engine", "err", err)
		os.Exit(1)
	}
	defer engine.Close()

	if *check {
		fmt.Println(engine.CheckPermission())
		return
	}
	if *request {
		granted, err := engine.RequestPermission(context.Background())
		if err != nil {
			slog.Error("permission request failed", "err", err)
			os.Exit(1)
		}
		fmt.Println(granted)
		return
	}

	if err := run(engine, cfg, *duration); err != nil {
		slog.Error("recording failed", "err", err)
		os.Exit(1)
	}
}

func run(engine *whispermac.Engine, cfg *config.Config, duration time.Duration) error {
	if !engine.CheckPermission().Granted() {
		slog.Info("requesting microphone permission")
		granted, err := engine.RequestPermission(context.Background())
		if err != nil {
			return err
		}
		if !granted {
			return errors.New("microphone permission denied")
		}
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, int(cfg.SampleRate), 16, 1, 1)
	defer enc.Close()

	format := &audio.Format{NumChannels: 1, SampleRate: int(cfg.SampleRate)}
	consumer := func(batch []byte) {
		buf := &audio.IntBuffer{Format: format, SourceBitDepth: 16}
		buf.Data = make([]int, len(batch)/2)
		for i := range buf.Data {
			buf.Data[i] = int(int16(batch[2*i]) | int16(batch[2*i+1])<<8)
		}
		if err := enc.Write(buf); err != nil {
			slog.Error("wav write failed", "err", err)
		}
	}

	opts := cfg.CaptureOptions()
	if err := engine.Start(consumer, &opts); err != nil {
		return err
	}
	slog.Info("recording",
		"output", cfg.Output,
		"sampleRate", cfg.SampleRate,
		"bufferFrames", cfg.BufferFrames)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			printLevel(engine.GetLevel())
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr)
			return engine.Stop()
		}
	}
}

// printLevel renders a one-line level bar to stderr.
func printLevel(level float64) {
	const width = 30
	filled := int(level * width)
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	fmt.Fprintf(os.Stderr, "\r[%s] %5.3f", bar, level)
}

// configureLogger sets the default slog logger: tint to stderr, or
// JSON to a file when one is configured.
func configureLogger(logLevel, logFile string) (*os.File, error) {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unexpected log level %q", logLevel)
	}

	if logFile == "" {
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level})))
		return nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})))
	return f, nil
}
