package audio

import "sync"

// Resource es el audio generado de la sesión: los bytes MP3 más un handle
// revocable. Hay como mucho uno activo; reemplazarlo libera el anterior.
type Resource struct {
	id    string
	voice string

	mu       sync.Mutex
	data     []byte
	released bool
}

func NewResource(id, voice string, data []byte) *Resource {
	return &Resource{id: id, voice: voice, data: data}
}

func (r *Resource) ID() string { return r.id }

func (r *Resource) Voice() string { return r.voice }

// Bytes devuelve el payload, o nil si el handle ya fue liberado.
func (r *Resource) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil
	}
	return r.data
}

func (r *Resource) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}

// Release revoca el handle y suelta los bytes. Solo la primera llamada
// libera de verdad; devuelve false si ya estaba liberado.
func (r *Resource) Release() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return false
	}
	r.released = true
	r.data = nil
	return true
}

func (r *Resource) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
