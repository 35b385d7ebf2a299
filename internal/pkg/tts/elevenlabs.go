package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dobosmarton/gaffer-app/internal/pkg/env"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	defaultVoiceID = "wo6udizrrtpIxWGp2qJk"

	modelID      = "eleven_multilingual_v2"
	outputFormat = "mp3_44100_128"
)

// Client converts hype text to speech via the ElevenLabs API
type Client struct {
	apiKey     string
	voiceID    string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a TTS client from environment configuration
func NewClient() *Client {
	return &Client{
		apiKey:     env.GetEnv("ELEVENLABS_API_KEY", ""),
		voiceID:    env.GetEnv("ELEVENLABS_VOICE_ID", defaultVoiceID),
		baseURL:    env.GetEnv("ELEVENLABS_API_URL", defaultBaseURL),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type convertRequest struct {
	Text         string `json:"text"`
	ModelID      string `json:"model_id"`
	OutputFormat string `json:"output_format"`
}

// Convert synthesizes the given text as MP3 audio. The returned reader is the
// raw response body; the caller must close it.
func (c *Client) Convert(ctx context.Context, text, voiceID string) (io.ReadCloser, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("ElevenLabs API key is not set")
	}
	if voiceID == "" {
		voiceID = c.voiceID
	}

	payload, err := json.Marshal(convertRequest{
		Text:         text,
		ModelID:      modelID,
		OutputFormat: outputFormat,
	})
	if err != nil {
		return nil, err
	}

	requestURL := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach ElevenLabs API: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("ElevenLabs API returned status %d: %s", resp.StatusCode, string(body))
	}

	return resp.Body, nil
}
