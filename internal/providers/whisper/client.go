// Package whisper calls the OpenAI speech-to-text API over multipart HTTP.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"

	"soundscript/internal/audio"
	"soundscript/internal/domain"
	"soundscript/internal/providers"
)

// The API is asked for a verbatim transcript; polishing happens downstream.
const transcribePrompt = "Transcribe everything exactly as spoken, including all filler words like um, uh, ah, hm, you know, like, etc. Include all hesitations, pauses, and natural speech patterns."

// defaultConfidence is reported when the simple JSON response carries no
// per-segment confidence.
const defaultConfidence = 0.9

// Config controls the transcription client.
type Config struct {
	APIKey     string
	APIBaseURL string
	Model      string
	Language   string
	MaxRetries int
	Timeout    time.Duration
	RetryBase  time.Duration
}

// Client implements ports.Transcriber.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type transcriptionResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// Transcribe uploads WAV-encoded audio and returns the transcript. Transient
// failures and empty results are retried with linear backoff; exhaustion yields
// a Failed result carrying the last error, cancellation a Cancelled one.
func (c *Client) Transcribe(ctx context.Context, pcm []byte) domain.TranscriptionResult {
	result := domain.TranscriptionResult{Status: domain.SessionFailed}

	if strings.TrimSpace(c.cfg.APIKey) == "" {
		result.ErrorMessage = "transcription API key is not configured"
		return result
	}

	var out transcriptionResponse
	var lastErr error
	err := retry.Do(ctx, retry.WithMaxRetries(uint64(c.cfg.MaxRetries-1), providers.LinearBackoff(c.cfg.RetryBase)), func(ctx context.Context) error {
		resp, err := c.transcribeOnce(ctx, pcm)
		if err != nil {
			lastErr = err
			return retry.RetryableError(err)
		}
		if strings.TrimSpace(resp.Text) == "" {
			lastErr = errors.New("no transcription text received")
			return retry.RetryableError(lastErr)
		}
		out = resp
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			result.Status = domain.SessionCancelled
			result.ErrorMessage = "transcription was cancelled"
			return result
		}
		if lastErr == nil {
			lastErr = err
		}
		result.ErrorMessage = lastErr.Error()
		return result
	}

	result.Status = domain.SessionCompleted
	result.Text = strings.TrimSpace(out.Text)
	result.Confidence = defaultConfidence
	result.Duration = time.Duration(out.Duration * float64(time.Second))
	result.Language = out.Language
	return result
}

func (c *Client) transcribeOnce(ctx context.Context, pcm []byte) (transcriptionResponse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return transcriptionResponse{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio.EncodeWAV(pcm)); err != nil {
		return transcriptionResponse{}, fmt.Errorf("write audio payload: %w", err)
	}
	_ = writer.WriteField("model", c.cfg.Model)
	_ = writer.WriteField("response_format", "json")
	_ = writer.WriteField("language", c.cfg.Language)
	_ = writer.WriteField("temperature", "0")
	_ = writer.WriteField("prompt", transcribePrompt)
	if err := writer.Close(); err != nil {
		return transcriptionResponse{}, fmt.Errorf("finalize form: %w", err)
	}

	url := c.cfg.APIBaseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return transcriptionResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("User-Agent", "soundscript/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transcriptionResponse{}, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return transcriptionResponse{}, fmt.Errorf("transcription API error: %s - %s", resp.Status, truncate(respBody, 200))
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return transcriptionResponse{}, fmt.Errorf("malformed transcription response: %w", err)
	}

	log.Debug().Dur("elapsed", time.Since(start)).Int("audioBytes", len(pcm)).Msg("transcription request completed")
	return parsed, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
