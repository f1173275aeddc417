package careapi

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

	"carecoord/internal/audio"
	"carecoord/internal/domain"
)

// Config controls how the coordinator backend is reached.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the care coordinator backend. It implements the roster,
// chat, transcription and speech-synthesis collaborator ports.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListPatients fetches the selectable roster.
func (c *Client) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/patients", nil)
	if err != nil {
		return nil, fmt.Errorf("build roster request: %w", err)
	}

	var patients []domain.Patient
	if err := c.doJSON(req, &patients); err != nil {
		return nil, fmt.Errorf("fetch patients: %w", err)
	}
	return patients, nil
}

// GetPatient fetches the detailed record for one patient.
func (c *Client) GetPatient(ctx context.Context, id int) (domain.PatientRecord, error) {
	url := fmt.Sprintf("%s/patient/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build patient request: %w", err)
	}

	var record domain.PatientRecord
	if err := c.doJSON(req, &record); err != nil {
		return nil, fmt.Errorf("fetch patient %d: %w", id, err)
	}
	return record, nil
}

// Reply sends one prompt for the given patient and returns the assistant's
// response text.
func (c *Client) Reply(ctx context.Context, prompt string, patientID int) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"prompt":     prompt,
		"patient_id": patientID,
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Response string `json:"response"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return out.Response, nil
}

// Transcribe uploads a finalized clip as a WAV file and returns its text.
func (c *Client) Transcribe(ctx context.Context, clip domain.AudioClip) (string, error) {
	if len(clip.PCM) == 0 {
		return "", errors.New("empty audio clip")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fmt.Sprintf("recording-%s.wav", clip.ID))
	if err != nil {
		return "", fmt.Errorf("build transcription upload: %w", err)
	}
	if _, err := part.Write(audio.WrapPCM(clip.PCM, clip.SampleRate, clip.Channels)); err != nil {
		return "", fmt.Errorf("write transcription upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish transcription upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &body)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out struct {
		Text string `json:"text"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return out.Text, nil
}

// Synthesize returns encoded spoken audio for the given text.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("encode synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/synthesize-speech", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesize speech: %w", responseError(resp))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read synthesized audio: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("synthesize speech: empty audio response")
	}
	return data, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// responseError extracts the backend's {"error": ...} payload when present.
func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("backend returned %s: %s", resp.Status, payload.Error)
	}
	return fmt.Errorf("backend returned %s", resp.Status)
}
