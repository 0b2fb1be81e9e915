package ports

import (
	"context"
	"time"

	"soundscript/internal/domain"
)

// HotkeyEvent is a debounced press or release of the global dictation key.
type HotkeyEvent int

const (
	HotkeyPressed HotkeyEvent = iota
	HotkeyReleased
)

// HotkeySource delivers global hotkey events. Implementations must debounce:
// a held key yields exactly one Pressed and, when it ends, exactly one Released.
type HotkeySource interface {
	Events() <-chan HotkeyEvent
	Close() error
}

// Recorder captures microphone input as 16 kHz 16-bit little-endian mono PCM.
type Recorder interface {
	Start(ctx context.Context) error
	// Stop ends capture and returns the complete PCM buffer.
	Stop() ([]byte, error)
	// Chunks streams raw PCM as it is captured. The channel stays open for the
	// recorder's lifetime; chunks are only delivered while recording.
	Chunks() <-chan []byte
}

// Transcriber converts captured audio into text. Failures and cancellation are
// reported through the result's status, never as a panic or a bare error.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []byte) domain.TranscriptionResult
}

// Polisher normalizes punctuation and capitalization without changing words.
// Implementations must resolve to the input text on any failure or cancellation.
type Polisher interface {
	Polish(ctx context.Context, raw string) string
}

// Clipboard places transcripts into the system clipboard.
type Clipboard interface {
	Copy(text string) error
	// CopyAndPaste copies text and then simulates a paste keystroke into the
	// previously focused window.
	CopyAndPaste(text string) error
}

// MuteToggler flips system-wide output mute. The OS primitive is a raw toggle;
// pairing mute with unmute is the caller's responsibility.
type MuteToggler interface {
	ToggleMute() error
}

// AudioCue plays short, non-blocking feedback tones around recording.
type AudioCue interface {
	PlayStart()
	PlayEnd()
}

// SessionStore is an append-only store of sessions in a terminal status.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session) (int64, error)
	ByID(ctx context.Context, id int64) (*domain.Session, error)
	Recent(ctx context.Context, n int) ([]domain.Session, error)
	ByDate(ctx context.Context, day time.Time) ([]domain.Session, error)
	Page(ctx context.Context, offset, limit int) ([]domain.Session, error)
	All(ctx context.Context) ([]domain.Session, error)
	Search(ctx context.Context, term string) ([]domain.Session, error)
	Stats(ctx context.Context) (domain.Stats, error)
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}

// EventSink emits orchestrator state and results to the front-end.
type EventSink interface {
	StatusChanged(status domain.Status)
	AudioLevel(peak float64)
	SessionFinished(s domain.Session)
	StatsRefreshed(stats domain.Stats)
	Error(code domain.ErrorCode, detail string)
}
