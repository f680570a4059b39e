package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vozApp/internal/domain"
)

// Client habla con el backend de síntesis vocal por REST. El backend es la
// fuente de verdad del historial; aquí no se cachea nada.
type Client struct {
	baseURL string
	httpCli *http.Client
}

var (
	_ domain.SpeechGenerator = (*Client)(nil)
	_ domain.VoiceCatalog    = (*Client)(nil)
	_ domain.HistoryStore    = (*Client)(nil)
)

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCli: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

type voicesResponse struct {
	Voices  []domain.Voice `json:"voices"`
	Formats []string       `json:"formats"`
}

// ListVoices devuelve el catálogo completo de voces del backend.
func (c *Client) ListVoices(ctx context.Context) ([]domain.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tts/voices", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: voices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("voices", resp)
	}

	var payload voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("backend: voices: decode: %w", err)
	}

	return payload.Voices, nil
}

// Generate pide la síntesis y devuelve el MP3 completo. Un 429 se traduce a
// domain.ErrRateLimit; el resto de fallos colapsan en un error genérico.
func (c *Client) Generate(ctx context.Context, synth domain.SynthesisRequest) ([]byte, error) {
	body, err := json.Marshal(synth)
	if err != nil {
		return nil, fmt.Errorf("backend: generate: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tts/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("backend: generate: %w", domain.ErrRateLimit)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("generate", resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backend: generate: read: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("backend: generate: audio vacío")
	}

	return audio, nil
}

// ListHistory devuelve el historial en el orden que decide el backend.
func (c *Client) ListHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tts/history", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("history", resp)
	}

	var entries []domain.HistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("backend: history: decode: %w", err)
	}

	return entries, nil
}

// AppendHistory registra una conversión terminada y devuelve la entrada creada.
func (c *Client) AppendHistory(ctx context.Context, draft domain.HistoryDraft) (*domain.HistoryEntry, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("backend: append: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tts/history", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: append: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("append", resp)
	}

	var entry domain.HistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, fmt.Errorf("backend: append: decode: %w", err)
	}

	return &entry, nil
}

// DeleteHistory borra una entrada por id en el servidor.
func (c *Client) DeleteHistory(ctx context.Context, id string) error {
	target := c.baseURL + "/tts/history/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("backend: delete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("delete", resp)
	}

	return nil
}

// Health comprueba que el backend responde. Solo se usa como sonda de arranque.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("backend: health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("health", resp)
	}

	return nil
}

func statusError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("backend: %s: status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(snippet)))
}
