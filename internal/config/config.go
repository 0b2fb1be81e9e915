package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config stores runtime configuration for the dictation utility.
type Config struct {
	Whisper ProviderConfig
	Gemini  ProviderConfig
	Session SessionConfig
	History HistoryConfig
	Hotkey  HotkeyConfig
}

// ProviderConfig identifies one remote API.
type ProviderConfig struct {
	APIKey     string
	APIBaseURL string
	Model      string
}

// SessionConfig controls capture and pipeline behavior.
type SessionConfig struct {
	MaxRetries       int
	RequestTimeout   time.Duration
	UseStreaming     bool
	ChunkSeconds     int
	SilenceThreshold float64
	EnableRealTime   bool
	AutoPaste        bool
	SkipPolishing    bool
	Parallel         bool
	ShutdownGrace    time.Duration
}

// HistoryConfig locates the session database.
type HistoryConfig struct {
	Path string
}

// HotkeyConfig names the global dictation key chord.
type HotkeyConfig struct {
	Chord string
}

// Load resolves configuration from environment variables and sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Whisper: ProviderConfig{
			APIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			APIBaseURL: envOrDefault("SOUNDSCRIPT_WHISPER_API_BASE", "https://api.openai.com/v1"),
			Model:      envOrDefault("SOUNDSCRIPT_WHISPER_MODEL", "whisper-1"),
		},
		Gemini: ProviderConfig{
			APIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			APIBaseURL: envOrDefault("SOUNDSCRIPT_GEMINI_API_BASE", "https://generativelanguage.googleapis.com/v1beta/models"),
			Model:      envOrDefault("SOUNDSCRIPT_GEMINI_MODEL", "gemini-2.0-flash-exp"),
		},
		Session: SessionConfig{
			MaxRetries:       envOrDefaultInt("SOUNDSCRIPT_MAX_RETRIES", 2),
			RequestTimeout:   time.Duration(envOrDefaultInt("SOUNDSCRIPT_REQUEST_TIMEOUT_MS", 15000)) * time.Millisecond,
			UseStreaming:     envOrDefaultBool("SOUNDSCRIPT_USE_STREAMING", true),
			ChunkSeconds:     envOrDefaultInt("SOUNDSCRIPT_CHUNK_SECONDS", 3),
			SilenceThreshold: envOrDefaultFloat("SOUNDSCRIPT_SILENCE_THRESHOLD", 0.01),
			EnableRealTime:   envOrDefaultBool("SOUNDSCRIPT_REALTIME", true),
			AutoPaste:        envOrDefaultBool("SOUNDSCRIPT_AUTO_PASTE", true),
			SkipPolishing:    envOrDefaultBool("SOUNDSCRIPT_SKIP_POLISHING", false),
			Parallel:         envOrDefaultBool("SOUNDSCRIPT_PARALLEL", true),
			ShutdownGrace:    time.Duration(envOrDefaultInt("SOUNDSCRIPT_SHUTDOWN_GRACE_MS", 5000)) * time.Millisecond,
		},
		History: HistoryConfig{
			Path: envOrDefault("SOUNDSCRIPT_HISTORY_PATH", defaultHistoryPath()),
		},
		Hotkey: HotkeyConfig{
			Chord: envOrDefault("SOUNDSCRIPT_HOTKEY", "ctrl+win+space"),
		},
	}

	if cfg.Session.MaxRetries < 1 {
		cfg.Session.MaxRetries = 1
	}
	if cfg.Session.RequestTimeout <= 0 {
		cfg.Session.RequestTimeout = 15 * time.Second
	}
	if cfg.Session.ChunkSeconds <= 0 {
		cfg.Session.ChunkSeconds = 3
	}
	if cfg.Session.ShutdownGrace <= 0 {
		cfg.Session.ShutdownGrace = 5 * time.Second
	}

	return cfg, nil
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "SoundScript", "history.db")
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDefaultBool(key string, fallback bool) bool {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
