package domain

import "time"

// SessionStatus tracks a dictation session from processing to its terminal state.
type SessionStatus string

const (
	SessionProcessing SessionStatus = "Processing"
	SessionCompleted  SessionStatus = "Completed"
	SessionFailed     SessionStatus = "Failed"
	SessionCancelled  SessionStatus = "Cancelled"
)

// Terminal reports whether a session in this status may be persisted.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionFailed || s == SessionCancelled
}

// CaptureState models the physical recording key.
type CaptureState string

const (
	CaptureIdle      CaptureState = "idle"
	CaptureRecording CaptureState = "recording"
)

// ErrorCode identifies non-fatal backend errors surfaced to the front-end.
type ErrorCode string

const (
	ErrorCodeStartup     ErrorCode = "startup"
	ErrorCodeCapture     ErrorCode = "capture"
	ErrorCodeMute        ErrorCode = "mute"
	ErrorCodeClipboard   ErrorCode = "clipboard"
	ErrorCodePersistence ErrorCode = "persistence"
	ErrorCodeTranscribe  ErrorCode = "transcription"
)

// Status summarizes the orchestrator's externally visible state.
type Status struct {
	State            CaptureState `json:"state"`
	ActiveProcessing int          `json:"activeProcessing"`
}

// Session is one recording-to-result cycle. It is owned exclusively by a
// single processing task until persisted, and never mutated afterwards.
type Session struct {
	ID             int64
	Timestamp      time.Time
	RawText        string
	PolishedText   string
	Duration       time.Duration
	WordCount      int
	WordsPerMinute float64
	Confidence     float64
	Status         SessionStatus
	ErrorMessage   string
	CharacterCount int
	SentenceCount  int
	Language       string
	ModelUsed      string
	AudioData      []byte
}

// HasAudio reports whether the raw PCM capture was retained for this session.
func (s *Session) HasAudio() bool {
	return len(s.AudioData) > 0
}

// TranscriptionResult is the outcome of one transcription call, retries included.
type TranscriptionResult struct {
	Text         string
	Confidence   float64
	Duration     time.Duration
	Language     string
	Status       SessionStatus
	ErrorMessage string
}

// IsSuccessful reports whether the call produced usable text.
func (r TranscriptionResult) IsSuccessful() bool {
	return r.Status == SessionCompleted && r.Text != ""
}

// Stats are aggregate figures over all persisted sessions. They are recomputed
// from the session set on every refresh rather than patched incrementally.
type Stats struct {
	TotalSessions      int
	TotalWords         int
	AverageWPM         float64
	AverageConfidence  float64
	TotalRecordingTime time.Duration
}

// WordCount pairs a word with its frequency across recent sessions.
type WordCount struct {
	Word  string
	Count int
}
