package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"alfredoptarigan/ai-interview-platform/internal/metrics"
)

// WhisperClient talks to an OpenAI-compatible /audio/transcriptions endpoint.
type WhisperClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

type whisperResponse struct {
	Text  string          `json:"text"`
	Error *whisperAPIError `json:"error,omitempty"`
}

type whisperAPIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewWhisperClient(baseURL, apiKey, model string, httpClient *http.Client) *WhisperClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &WhisperClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  httpClient,
	}
}

func (w *WhisperClient) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	start := time.Now()
	text, err := w.transcribe(ctx, audio, mimeType)
	metrics.ObserveStage("stt", start, err)
	return text, err
}

func (w *WhisperClient) transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", ErrNoAudio
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", "answer"+extensionForMime(mimeType))
	if err != nil {
		return "", fmt.Errorf("error creating form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("error writing audio: %w", err)
	}
	if err := form.WriteField("model", w.model); err != nil {
		return "", fmt.Errorf("error writing model field: %w", err)
	}
	if err := form.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("error writing format field: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("error closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whisper API error: status %d, body: %s", resp.StatusCode, string(raw))
	}

	var parsed whisperResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("whisper API error: %s", parsed.Error.Message)
	}

	return strings.TrimSpace(parsed.Text), nil
}
