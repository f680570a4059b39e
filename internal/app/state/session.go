package state

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"vozApp/internal/app/audio"
	"vozApp/internal/domain"
	historyusecase "vozApp/internal/usecase/history"
	"vozApp/internal/usecase/synthesis"
	"vozApp/internal/usecase/voices"
)

// Session es el contenedor explícito del estado de la sesión: texto, voz,
// velocidad, flag de generación, catálogo, historial y el audio activo. Se
// crea al arrancar y se destruye al cerrar; nada se persiste en local.
type Session struct {
	mu         sync.RWMutex
	text       string
	voiceID    string
	speed      float64
	generating bool

	catalog  *voices.Catalog
	history  *historyusecase.Service
	pipeline *synthesis.Service
	player   *audio.Controller
}

// Snapshot es el estado derivado que consume la vista. Se recalcula en cada
// consulta, nunca se guarda de forma redundante.
type Snapshot struct {
	Text        string                `json:"text"`
	VoiceID     string                `json:"voice_id"`
	Speed       float64               `json:"speed"`
	Generating  bool                  `json:"generating"`
	CharCount   int                   `json:"char_count"`
	CanGenerate bool                  `json:"can_generate"`
	HasAudio    bool                  `json:"has_audio"`
	IsPlaying   bool                  `json:"is_playing"`
	Voices      []domain.Voice        `json:"voices"`
	History     []domain.HistoryEntry `json:"history"`
}

func NewSession(catalog *voices.Catalog, history *historyusecase.Service, pipeline *synthesis.Service, player *audio.Controller) *Session {
	return &Session{
		voiceID:  domain.DefaultVoice,
		speed:    domain.DefaultSpeed,
		catalog:  catalog,
		history:  history,
		pipeline: pipeline,
		player:   player,
	}
}

// Startup carga voces e historial. Ambas cargas degradan en silencio: un
// backend caído no impide arrancar.
func (s *Session) Startup(ctx context.Context) {
	_ = s.catalog.Load(ctx)
	_ = s.history.Refresh(ctx)
}

func (s *Session) SetText(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

func (s *Session) SetVoice(id string) error {
	if !s.catalog.Empty() {
		if _, ok := s.catalog.Find(id); !ok {
			return fmt.Errorf("voz no soportada: %s", id)
		}
	}
	s.mu.Lock()
	s.voiceID = id
	s.mu.Unlock()
	return nil
}

// SetSpeed ajusta a la rejilla de 0.25 antes de guardar; al backend nunca
// llega un valor interpolado ni fuera de rango.
func (s *Session) SetSpeed(speed float64) {
	s.mu.Lock()
	s.speed = domain.ClampSpeed(speed)
	s.mu.Unlock()
}

// Generate lanza el pipeline con el estado actual. El flag generating es el
// espejo para deshabilitar el control en la interfaz; el pipeline mantiene
// su propia guarda además de esta.
func (s *Session) Generate(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return "", domain.ErrBusy
	}
	s.generating = true
	req := domain.SynthesisRequest{
		Text:  s.text,
		Voice: s.voiceID,
		Speed: s.speed,
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.generating = false
		s.mu.Unlock()
	}()

	return s.pipeline.Generate(ctx, req)
}

func (s *Session) TogglePlayback() error {
	return s.player.Toggle()
}

func (s *Session) Download(filename string) (string, error) {
	return s.player.Download(filename)
}

func (s *Session) DeleteHistory(ctx context.Context, id string) error {
	return s.history.Delete(ctx, id)
}

func (s *Session) RefreshHistory(ctx context.Context) error {
	return s.history.Refresh(ctx)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	text := s.text
	voiceID := s.voiceID
	speed := s.speed
	generating := s.generating
	s.mu.RUnlock()

	return Snapshot{
		Text:        text,
		VoiceID:     voiceID,
		Speed:       speed,
		Generating:  generating,
		CharCount:   len([]rune(text)),
		CanGenerate: !generating && strings.TrimSpace(text) != "",
		HasAudio:    s.player.HasResource(),
		IsPlaying:   s.player.IsPlaying(),
		Voices:      s.catalog.Voices(),
		History:     s.history.Entries(),
	}
}
