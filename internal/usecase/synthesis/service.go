package synthesis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"vozApp/internal/app/audio"
	"vozApp/internal/app/events"
	"vozApp/internal/domain"
)

// Mensajes de aviso al usuario. El límite de peticiones tiene su propio
// mensaje; el resto de fallos colapsan en el genérico.
const (
	MsgEmptyText   = "Escribe un texto antes de generar."
	MsgTextTooLong = "El texto supera el máximo permitido."
	MsgRateLimit   = "Límite de peticiones alcanzado. Inténtalo de nuevo más tarde."
	MsgGenerateErr = "No se pudo generar el audio."
	MsgGenerateOK  = "Audio generado correctamente."
)

// Sink recibe el recurso recién generado; libera el anterior al asignar.
type Sink interface {
	SetResource(res *audio.Resource)
}

// HistoryWriter es la parte del historial que usa el pipeline.
type HistoryWriter interface {
	Append(ctx context.Context, draft domain.HistoryDraft) error
	Refresh(ctx context.Context) error
}

// Service orquesta una petición de síntesis: valida, llama al backend, mide
// la duración, entrega el audio al sink y registra la entrada de historial.
// Estados: idle → validating → in_flight → done|error → idle.
type Service struct {
	generator domain.SpeechGenerator
	history   HistoryWriter
	sink      Sink
	bus       *events.Bus

	// Guarda a nivel de pipeline, además del deshabilitado del control en la
	// interfaz: una segunda petición se rechaza, nunca se encola.
	inFlight atomic.Bool
}

func NewService(generator domain.SpeechGenerator, history HistoryWriter, sink Sink, bus *events.Bus) *Service {
	return &Service{
		generator: generator,
		history:   history,
		sink:      sink,
		bus:       bus,
	}
}

func (s *Service) InFlight() bool {
	return s.inFlight.Load()
}

// Generate ejecuta el flujo completo generar → guardar historial → recargar.
// Devuelve el id de la petición. La validación ocurre antes de cualquier
// llamada de red.
func (s *Service) Generate(ctx context.Context, req domain.SynthesisRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		s.notify(events.NoticeError, MsgEmptyText)
		return "", domain.ErrEmptyText
	}
	if len([]rune(req.Text)) > domain.MaxTextLength {
		s.notify(events.NoticeError, MsgTextTooLong)
		return "", domain.ErrTextTooLong
	}
	req.Speed = domain.ClampSpeed(req.Speed)

	if !s.inFlight.CompareAndSwap(false, true) {
		return "", domain.ErrBusy
	}
	defer s.inFlight.Store(false)

	id := uuid.NewString()
	s.publishStatus("in_flight", id, "")
	log.Printf("synthesis: generando (id=%s voice=%s speed=%.2f len=%d)", id, req.Voice, req.Speed, len(req.Text))

	start := time.Now()
	payload, err := s.generator.Generate(ctx, req)
	if err != nil {
		s.fail(id, err)
		return "", err
	}
	duration := time.Since(start).Seconds()

	s.sink.SetResource(audio.NewResource(id, req.Voice, payload))

	draft := domain.HistoryDraft{
		Text:     domain.TruncateText(req.Text, domain.HistoryTextLimit),
		Voice:    req.Voice,
		Speed:    req.Speed,
		Duration: duration,
	}
	if err := s.history.Append(ctx, draft); err != nil {
		log.Printf("synthesis: historial no guardado (id=%s): %v", id, err)
	}
	// La recarga va siempre después de que el append termine, falle o no:
	// mismo comportamiento que el flujo original.
	_ = s.history.Refresh(ctx)

	s.publishStatus("done", id, "")
	s.notify(events.NoticeSuccess, MsgGenerateOK)
	log.Printf("synthesis: audio listo (id=%s %d bytes %.2fs)", id, len(payload), duration)

	return id, nil
}

func (s *Service) fail(id string, err error) {
	if errors.Is(err, domain.ErrRateLimit) {
		s.notify(events.NoticeError, MsgRateLimit)
	} else {
		s.notify(events.NoticeError, MsgGenerateErr)
	}
	s.publishStatus("error", id, err.Error())
	if s.bus != nil {
		s.bus.Publish(events.TopicAppError, map[string]any{
			"source": "synthesis",
			"error":  fmt.Sprintf("%v", err),
		})
	}
}

func (s *Service) notify(level, message string) {
	if s.bus != nil {
		s.bus.Publish(events.TopicNotice, events.NewNoticeDTO(level, message))
	}
}

func (s *Service) publishStatus(state, id, lastError string) {
	if s.bus != nil {
		s.bus.Publish(events.TopicSynthesisStatus, events.NewSynthesisStatusDTO(state, id, lastError))
	}
}
