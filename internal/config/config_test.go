package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"OPENAI_API_KEY", "GEMINI_API_KEY",
		"SOUNDSCRIPT_WHISPER_MODEL", "SOUNDSCRIPT_GEMINI_MODEL",
		"SOUNDSCRIPT_MAX_RETRIES", "SOUNDSCRIPT_REQUEST_TIMEOUT_MS",
		"SOUNDSCRIPT_AUTO_PASTE", "SOUNDSCRIPT_SKIP_POLISHING",
		"SOUNDSCRIPT_HISTORY_PATH", "SOUNDSCRIPT_HOTKEY",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Whisper.Model != "whisper-1" {
		t.Fatalf("unexpected whisper model: %q", cfg.Whisper.Model)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash-exp" {
		t.Fatalf("unexpected gemini model: %q", cfg.Gemini.Model)
	}
	if cfg.Session.MaxRetries != 2 {
		t.Fatalf("unexpected max retries: %d", cfg.Session.MaxRetries)
	}
	if cfg.Session.RequestTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Session.RequestTimeout)
	}
	if !cfg.Session.AutoPaste {
		t.Fatalf("auto paste should default on")
	}
	if cfg.Session.SkipPolishing {
		t.Fatalf("skip polishing should default off")
	}
	if cfg.History.Path == "" {
		t.Fatalf("history path must have a default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", " sk-test ")
	t.Setenv("SOUNDSCRIPT_WHISPER_MODEL", "whisper-large")
	t.Setenv("SOUNDSCRIPT_MAX_RETRIES", "5")
	t.Setenv("SOUNDSCRIPT_REQUEST_TIMEOUT_MS", "2500")
	t.Setenv("SOUNDSCRIPT_AUTO_PASTE", "off")
	t.Setenv("SOUNDSCRIPT_SKIP_POLISHING", "yes")
	t.Setenv("SOUNDSCRIPT_SILENCE_THRESHOLD", "0.2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Whisper.APIKey != "sk-test" {
		t.Fatalf("api key not trimmed: %q", cfg.Whisper.APIKey)
	}
	if cfg.Whisper.Model != "whisper-large" {
		t.Fatalf("unexpected model: %q", cfg.Whisper.Model)
	}
	if cfg.Session.MaxRetries != 5 {
		t.Fatalf("unexpected max retries: %d", cfg.Session.MaxRetries)
	}
	if cfg.Session.RequestTimeout != 2500*time.Millisecond {
		t.Fatalf("unexpected timeout: %v", cfg.Session.RequestTimeout)
	}
	if cfg.Session.AutoPaste {
		t.Fatalf("auto paste should be off")
	}
	if !cfg.Session.SkipPolishing {
		t.Fatalf("skip polishing should be on")
	}
	if cfg.Session.SilenceThreshold != 0.2 {
		t.Fatalf("unexpected silence threshold: %v", cfg.Session.SilenceThreshold)
	}
}

func TestLoadClampsInvalidValues(t *testing.T) {
	t.Setenv("SOUNDSCRIPT_MAX_RETRIES", "0")
	t.Setenv("SOUNDSCRIPT_REQUEST_TIMEOUT_MS", "-1")
	t.Setenv("SOUNDSCRIPT_CHUNK_SECONDS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Session.MaxRetries != 1 {
		t.Fatalf("max retries not clamped: %d", cfg.Session.MaxRetries)
	}
	if cfg.Session.RequestTimeout != 15*time.Second {
		t.Fatalf("timeout not clamped: %v", cfg.Session.RequestTimeout)
	}
	if cfg.Session.ChunkSeconds != 3 {
		t.Fatalf("chunk seconds not defaulted: %d", cfg.Session.ChunkSeconds)
	}
}
