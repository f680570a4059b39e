package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vozApp/internal/domain"
)

func TestListVoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/tts/voices" {
			t.Errorf("petición inesperada: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"voices": [
				{"id": "onyx", "name": "Onyx", "description": "Voz masculina profunda"},
				{"id": "nova", "name": "Nova", "description": "Voz femenina enérgica"}
			],
			"formats": ["mp3"],
			"speed_range": {"min": 0.25, "max": 4.0, "default": 1.0}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	voices, err := client.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("ListVoices: %v", err)
	}
	if len(voices) != 2 {
		t.Fatalf("esperaba 2 voces, hay %d", len(voices))
	}
	if voices[0].ID != "onyx" || voices[1].Name != "Nova" {
		t.Errorf("catálogo inesperado: %+v", voices)
	}
}

func TestGenerate(t *testing.T) {
	audio := []byte("ID3fake-mp3-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tts/generate" {
			t.Errorf("petición inesperada: %s %s", r.Method, r.URL.Path)
		}
		var req domain.SynthesisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Text != "Bonjour" || req.Voice != "onyx" || req.Speed != 1.0 {
			t.Errorf("body inesperado: %+v", req)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	got, err := client.Generate(context.Background(), domain.SynthesisRequest{
		Text:  "Bonjour",
		Voice: "onyx",
		Speed: 1.0,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(got) != string(audio) {
		t.Errorf("audio inesperado: %q", got)
	}
}

func TestGenerateRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Limite de requêtes dépassée"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Generate(context.Background(), domain.SynthesisRequest{Text: "hola", Voice: "onyx", Speed: 1.0})
	if !errors.Is(err, domain.ErrRateLimit) {
		t.Fatalf("esperaba ErrRateLimit, got %v", err)
	}
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Generate(context.Background(), domain.SynthesisRequest{Text: "hola", Voice: "onyx", Speed: 1.0})
	if err == nil {
		t.Fatal("esperaba error")
	}
	if errors.Is(err, domain.ErrRateLimit) {
		t.Fatal("un 500 no es rate limit")
	}
}

func TestGenerateEmptyAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Generate(context.Background(), domain.SynthesisRequest{Text: "hola", Voice: "onyx", Speed: 1.0}); err == nil {
		t.Fatal("esperaba error con cuerpo vacío")
	}
}

func TestListHistory(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/tts/history" {
			t.Errorf("petición inesperada: %s %s", r.Method, r.URL.Path)
		}
		entries := []domain.HistoryEntry{
			{ID: "2", Text: "segundo", Voice: "nova", Speed: 1.5, Duration: 2.2, Timestamp: now},
			{ID: "1", Text: "primero", Voice: "onyx", Speed: 1.0, Duration: 1.1, Timestamp: now.Add(-time.Minute)},
		}
		json.NewEncoder(w).Encode(entries)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	entries, err := client.ListHistory(context.Background())
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("esperaba 2 entradas, hay %d", len(entries))
	}
	// El orden es el del backend, sin reordenar.
	if entries[0].ID != "2" || entries[1].ID != "1" {
		t.Errorf("orden alterado: %+v", entries)
	}
	if !entries[0].Timestamp.Equal(now) {
		t.Errorf("timestamp mal decodificado: %v", entries[0].Timestamp)
	}
}

func TestAppendHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tts/history" {
			t.Errorf("petición inesperada: %s %s", r.Method, r.URL.Path)
		}
		var draft domain.HistoryDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			t.Fatalf("decode draft: %v", err)
		}
		entry := domain.HistoryEntry{
			ID:        "assigned-id",
			Text:      draft.Text,
			Voice:     draft.Voice,
			Speed:     draft.Speed,
			Duration:  draft.Duration,
			Timestamp: time.Now().UTC(),
		}
		json.NewEncoder(w).Encode(entry)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	entry, err := client.AppendHistory(context.Background(), domain.HistoryDraft{
		Text: "Bonjour", Voice: "onyx", Speed: 1.0, Duration: 1.8,
	})
	if err != nil {
		t.Fatalf("AppendHistory: %v", err)
	}
	if entry.ID != "assigned-id" || entry.Text != "Bonjour" {
		t.Errorf("entrada inesperada: %+v", entry)
	}
}

func TestDeleteHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("método inesperado: %s", r.Method)
		}
		switch r.URL.Path {
		case "/tts/history/abc":
			w.Write([]byte(`{"message":"ok"}`))
		default:
			http.Error(w, `{"detail":"no encontrado"}`, http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if err := client.DeleteHistory(context.Background(), "abc"); err != nil {
		t.Fatalf("DeleteHistory: %v", err)
	}
	if err := client.DeleteHistory(context.Background(), "missing"); err == nil {
		t.Fatal("esperaba error con id inexistente")
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("ruta inesperada: %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/api/")
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}
