package audio

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/go-mp3"
	"github.com/hajimehoshi/oto/v2"

	"vozApp/internal/app/events"
	"vozApp/internal/domain"
)

// DefaultDownloadName es el nombre fijo con el que se guarda el audio si el
// usuario no indica otro.
const DefaultDownloadName = "sintesis_vocal.mp3"

const watchInterval = 50 * time.Millisecond

// Controller es dueño de como mucho un Resource activo y de su reproducción.
// El flag playing refleja la intención del usuario; el estado real del player
// se observa con un ticker y el fin natural de la pista se refleja como una
// transición más, no como una acción del usuario.
type Controller struct {
	bus         *events.Bus
	downloadDir string

	mu       sync.Mutex
	resource *Resource
	player   oto.Player
	playing  bool
	gen      int

	// newPlayer permite sustituir la construcción del player; nil usa el
	// camino real (decodificar MP3 y tocar el dispositivo).
	newPlayer func(data []byte) (oto.Player, error)

	watchers atomic.Int32

	// oto solo permite un contexto por proceso; se crea perezosamente con el
	// sample rate del primer recurso y se reutiliza después.
	otoCtx        *oto.Context
	ctxSampleRate int
}

func NewController(bus *events.Bus, downloadDir string) *Controller {
	return &Controller{
		bus:         bus,
		downloadDir: downloadDir,
	}
}

// SetResource reemplaza el recurso activo. Es un movimiento: el handle
// anterior se libera exactamente una vez, aunque estuviera sonando.
func (c *Controller) SetResource(res *Resource) {
	c.mu.Lock()
	c.stopLocked()
	old := c.resource
	c.resource = res
	c.mu.Unlock()

	if old != nil {
		old.Release()
	}

	if res != nil {
		c.publishStatus("loaded", res.ID())
	} else {
		c.publishStatus("idle", "")
	}
}

// Toggle alterna play/pausa. Sin recurso activo es un no-op con error.
func (c *Controller) Toggle() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resource == nil || c.resource.Released() {
		return domain.ErrNoResource
	}

	if c.player == nil {
		if err := c.startLocked(); err != nil {
			return err
		}
		c.publishStatus("playing", c.resource.ID())
		return nil
	}

	if c.playing {
		c.player.Pause()
		c.playing = false
		// El cambio de generación apaga el watcher: en pausa no hay nada
		// que observar.
		c.gen++
		c.publishStatus("paused", c.resource.ID())
		return nil
	}

	c.player.Play()
	c.playing = true
	c.gen++
	go c.watch(c.gen, c.resource.ID())
	c.publishStatus("playing", c.resource.ID())
	return nil
}

func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

func (c *Controller) HasResource() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resource != nil && !c.resource.Released()
}

// Download guarda los bytes del recurso activo en disco y devuelve la ruta.
func (c *Controller) Download(filename string) (string, error) {
	c.mu.Lock()
	res := c.resource
	c.mu.Unlock()

	if res == nil {
		return "", domain.ErrNoResource
	}
	data := res.Bytes()
	if data == nil {
		return "", domain.ErrNoResource
	}

	if filename == "" {
		filename = DefaultDownloadName
	}
	path := filepath.Join(c.downloadDir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("audio: guardar %s: %w", path, err)
	}

	log.Printf("audio: guardado %s (%d bytes)", path, len(data))
	return path, nil
}

// Close detiene la reproducción y libera el recurso activo.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopLocked()
	res := c.resource
	c.resource = nil
	c.mu.Unlock()

	if res != nil {
		res.Release()
	}
}

func (c *Controller) startLocked() error {
	data := c.resource.Bytes()
	if data == nil {
		return domain.ErrNoResource
	}

	factory := c.newPlayer
	if factory == nil {
		factory = c.decodePlayer
	}
	player, err := factory(data)
	if err != nil {
		return err
	}

	c.player = player
	c.player.Play()
	c.playing = true
	c.gen++

	go c.watch(c.gen, c.resource.ID())
	return nil
}

func (c *Controller) decodePlayer(data []byte) (oto.Player, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("audio: mp3 decoder: %w", err)
	}

	if c.otoCtx == nil {
		otoCtx, ready, err := oto.NewContext(decoder.SampleRate(), 2, 2)
		if err != nil {
			return nil, fmt.Errorf("audio: oto context: %w", err)
		}
		<-ready
		c.otoCtx = otoCtx
		c.ctxSampleRate = decoder.SampleRate()
	} else if decoder.SampleRate() != c.ctxSampleRate {
		log.Printf("audio: sample rate %d distinto del contexto (%d)", decoder.SampleRate(), c.ctxSampleRate)
	}

	return c.otoCtx.NewPlayer(decoder), nil
}

// stopLocked cierra el player actual; el watcher en marcha detecta el cambio
// de generación y termina solo.
func (c *Controller) stopLocked() {
	if c.player != nil {
		_ = c.player.Close()
		c.player = nil
	}
	c.playing = false
	c.gen++
}

// watch observa el fin natural de la pista mientras suena. playing=true con
// el player parado significa fin de stream, no pausa. Pausar o parar cambia
// la generación y el watcher termina.
func (c *Controller) watch(gen int, resourceID string) {
	c.watchers.Add(1)
	defer c.watchers.Add(-1)

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		if c.gen != gen {
			c.mu.Unlock()
			return
		}
		if c.playing && c.player != nil && !c.player.IsPlaying() {
			_ = c.player.Close()
			c.player = nil
			c.playing = false
			c.gen++
			c.mu.Unlock()
			c.publishStatus("ended", resourceID)
			return
		}
		c.mu.Unlock()
	}
}

func (c *Controller) publishStatus(state, resourceID string) {
	if c.bus != nil {
		c.bus.Publish(events.TopicPlaybackStatus, events.NewPlaybackStatusDTO(state, resourceID))
	}
}
