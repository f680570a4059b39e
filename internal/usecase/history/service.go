package history

import (
	"context"
	"log"
	"sync"

	"vozApp/internal/app/events"
	"vozApp/internal/domain"
)

// Service mantiene la copia en memoria del historial. El backend manda:
// cada Refresh reemplaza la lista entera y el orden es el que devuelva el
// servidor, aquí no se reordena nada.
type Service struct {
	store domain.HistoryStore
	bus   *events.Bus

	mu      sync.RWMutex
	entries []domain.HistoryEntry
}

func NewService(store domain.HistoryStore, bus *events.Bus) *Service {
	return &Service{store: store, bus: bus}
}

// Refresh recarga la lista completa. Los fallos se registran pero no se
// muestran al usuario: la lista se queda obsoleta hasta la próxima recarga.
func (s *Service) Refresh(ctx context.Context) error {
	entries, err := s.store.ListHistory(ctx)
	if err != nil {
		log.Printf("history: refresh fallido: %v", err)
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(events.TopicHistoryUpdated, events.NewHistoryUpdatedDTO(len(entries)))
	}
	return nil
}

func (s *Service) Entries() []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.HistoryEntry(nil), s.entries...)
}

// Append registra una conversión terminada. Un fallo aquí no deshace la
// síntesis ya completada: se avisa y se sigue.
func (s *Service) Append(ctx context.Context, draft domain.HistoryDraft) error {
	if _, err := s.store.AppendHistory(ctx, draft); err != nil {
		log.Printf("history: append fallido: %v", err)
		if s.bus != nil {
			s.bus.Publish(events.TopicNotice, events.NewNoticeDTO(events.NoticeError, "No se pudo guardar en el historial."))
		}
		return err
	}
	return nil
}

// Delete borra una entrada en el servidor. Solo si el borrado tiene éxito se
// hace exactamente un Refresh; si falla, la lista queda como estaba.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteHistory(ctx, id); err != nil {
		log.Printf("history: delete %s fallido: %v", id, err)
		if s.bus != nil {
			s.bus.Publish(events.TopicNotice, events.NewNoticeDTO(events.NoticeError, "No se pudo eliminar el elemento."))
		}
		return err
	}

	if s.bus != nil {
		s.bus.Publish(events.TopicNotice, events.NewNoticeDTO(events.NoticeSuccess, "Elemento eliminado del historial."))
	}
	if err := s.Refresh(ctx); err != nil {
		// Borrado hecho pero recarga fallida: el siguiente refresh lo resuelve.
		return nil
	}
	return nil
}
