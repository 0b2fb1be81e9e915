// Package gemini normalizes transcripts through the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"

	"soundscript/internal/providers"
)

// The prompt is the word-preservation contract: the model may add punctuation
// and capitalization, never add, drop or change a word.
const polishPromptFormat = `Add ONLY punctuation and capitalization to this text. KEEP EVERY SINGLE WORD including um, uh, ah, hm, like, you know, etc.

CRITICAL RULES:
- Keep ALL filler words (um, uh, ah, hm, like, you know, etc.)
- Keep ALL hesitations and natural speech patterns
- Add periods, commas, question marks where needed
- Capitalize first letters of sentences and proper nouns
- Do NOT change any words
- Do NOT add any words
- Do NOT remove any words
- Do NOT fix grammar by changing words

Text: %s

Return the exact same words with only punctuation and capitalization added:`

var errNoResult = errors.New("no polished text in response")

// Config controls the polishing client.
type Config struct {
	APIKey     string
	APIBaseURL string
	Model      string
	MaxRetries int
	Timeout    time.Duration
	RetryBase  time.Duration
}

// Client implements ports.Polisher.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash-exp"
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 300 * time.Millisecond
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Polish returns raw with punctuation and capitalization normalized. Any
// failure, empty result or cancellation resolves to the original text;
// polishing must never block or corrupt the transcript.
func (c *Client) Polish(ctx context.Context, raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return raw
	}

	var polished string
	err := retry.Do(ctx, retry.WithMaxRetries(uint64(c.cfg.MaxRetries-1), providers.LinearBackoff(c.cfg.RetryBase)), func(ctx context.Context) error {
		text, err := c.polishOnce(ctx, raw)
		if err != nil {
			return retry.RetryableError(err)
		}
		polished = text
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Msg("text polishing failed; keeping raw transcript")
		return raw
	}
	return polished
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64  `json:"temperature"`
	TopK            int      `json:"topK"`
	TopP            float64  `json:"topP"`
	MaxOutputTokens int      `json:"maxOutputTokens"`
	StopSequences   []string `json:"stopSequences"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// extractText resolves candidates -> content -> parts -> text as one fallible
// step; any missing link is an explicit no-result, not a partial value.
func extractText(resp generateResponse) (string, bool) {
	if len(resp.Candidates) == 0 {
		return "", false
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", false
	}
	text := strings.TrimSpace(parts[0].Text)
	if text == "" {
		return "", false
	}
	return text, true
}

func (c *Client) polishOnce(ctx context.Context, raw string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(polishPromptFormat, raw)}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.1,
			TopK:            1,
			TopP:            0.8,
			MaxOutputTokens: 512,
			StopSequences:   []string{},
		},
		SafetySettings: []safetySetting{
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_ONLY_HIGH"},
			{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_ONLY_HIGH"},
			{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_ONLY_HIGH"},
			{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_ONLY_HIGH"},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode polish request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.cfg.APIBaseURL, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build polish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("polish request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("polish API error: %s", resp.Status)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("malformed polish response: %w", err)
	}
	text, ok := extractText(parsed)
	if !ok {
		return "", errNoResult
	}
	return text, nil
}
