package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Service reads questions aloud through the ElevenLabs REST API. It is
// purely presentational; the interview never depends on its output.
type Service struct {
	baseURL string
	apiKey  string
	voiceID string
	client  *http.Client
}

// NewService creates a synthesis client for one configured voice.
func NewService(baseURL, apiKey, voiceID string, timeout time.Duration) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		voiceID: voiceID,
		client:  &http.Client{Timeout: timeout},
	}
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize converts text to spoken audio and returns the bytes with
// their format label.
func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	payload, err := json.Marshal(synthesizeRequest{Text: text, ModelID: "eleven_monolingual_v1"})
	if err != nil {
		return nil, "", err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.baseURL, s.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", fmt.Errorf("tts failed: %s %s", resp.Status, string(detail))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read tts audio: %w", err)
	}

	log.Printf("[speech] synthesized %d chars into %d audio bytes", len(text), len(audio))
	return audio, "mp3", nil
}
