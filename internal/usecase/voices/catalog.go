package voices

import (
	"context"
	"log"
	"sync"

	"vozApp/internal/app/events"
	"vozApp/internal/domain"
)

// Catalog carga las voces del backend una vez por sesión. Si la carga falla
// el catálogo queda vacío y la interfaz degrada a "sin opciones"; nunca tira
// el resto de la aplicación.
type Catalog struct {
	backend domain.VoiceCatalog
	bus     *events.Bus

	mu     sync.RWMutex
	voices []domain.Voice
}

func NewCatalog(backend domain.VoiceCatalog, bus *events.Bus) *Catalog {
	return &Catalog{backend: backend, bus: bus}
}

func (c *Catalog) Load(ctx context.Context) error {
	list, err := c.backend.ListVoices(ctx)
	if err != nil {
		log.Printf("voices: carga fallida: %v", err)
		if c.bus != nil {
			c.bus.Publish(events.TopicNotice, events.NewNoticeDTO(events.NoticeInfo, "No se pudieron cargar las voces."))
		}
		return err
	}

	c.mu.Lock()
	c.voices = list
	c.mu.Unlock()

	if c.bus != nil {
		c.bus.Publish(events.TopicVoicesLoaded, events.NewVoicesLoadedDTO(len(list)))
	}
	return nil
}

func (c *Catalog) Voices() []domain.Voice {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Voice(nil), c.voices...)
}

func (c *Catalog) Find(id string) (domain.Voice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, v := range c.voices {
		if v.ID == id {
			return v, true
		}
	}
	return domain.Voice{}, false
}

func (c *Catalog) Empty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.voices) == 0
}
