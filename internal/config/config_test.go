package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.SampleRate != 16000 {
		t.Errorf("Expected sample rate 16000, got %g", cfg.SampleRate)
	}
	if cfg.BufferFrames != 4096 {
		t.Errorf("Expected 4096 buffer frames, got %d", cfg.BufferFrames)
	}
	if cfg.Output != "recording.wav" {
		t.Errorf("Expected default output recording.wav, got %q", cfg.Output)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected log level info, got %q", cfg.LogLevel)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SampleRate != 16000 {
		t.Errorf("Expected defaults for missing file, got rate %g", cfg.SampleRate)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "samplerate: 48000\nbufferframes: 1024\noutput: out.wav\nloglevel: debug\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.SampleRate != 48000 {
		t.Errorf("Expected sample rate 48000, got %g", cfg.SampleRate)
	}
	if cfg.BufferFrames != 1024 {
		t.Errorf("Expected 1024 buffer frames, got %d", cfg.BufferFrames)
	}
	if cfg.Output != "out.wav" {
		t.Errorf("Expected output out.wav, got %q", cfg.Output)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %q", cfg.LogLevel)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"rate_too_low", "samplerate: 7999\n"},
		{"rate_too_high", "samplerate: 96000\n"},
		{"frames_too_low", "bufferframes: 100\n"},
		{"frames_too_high", "bufferframes: 65536\n"},
		{"empty_output", "output: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCaptureOptions(t *testing.T) {
	cfg := &Config{SampleRate: 44100, BufferFrames: 2048, Output: "x.wav"}

	opts := cfg.CaptureOptions()
	if opts.SampleRate != 44100 {
		t.Errorf("Expected sample rate 44100, got %g", opts.SampleRate)
	}
	if opts.BufferFrames != 2048 {
		t.Errorf("Expected 2048 buffer frames, got %d", opts.BufferFrames)
	}
}
