package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vozApp/internal/app/events"
	"vozApp/internal/domain"
)

// Server expone un endpoint WebSocket local: retransmite los eventos del bus
// (avisos, estado de síntesis y reproducción, historial) a cada cliente
// conectado y acepta peticiones de generación entrantes como JSON.
type Server struct {
	addr     string
	bus      *events.Bus
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	handler GenerateHandler

	httpSrv *http.Server
}

// GenerateHandler despacha una petición entrante hacia el pipeline.
type GenerateHandler func(ctx context.Context, req domain.SynthesisRequest) (string, error)

var relayTopics = []string{
	events.TopicNotice,
	events.TopicAppError,
	events.TopicSynthesisStatus,
	events.TopicPlaybackStatus,
	events.TopicHistoryUpdated,
	events.TopicVoicesLoaded,
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// NewServer crea el servidor escuchando en addr (ej. ":8080").
func NewServer(addr string, bus *events.Bus) *Server {
	return &Server{
		addr: addr,
		bus:  bus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*wsClient]struct{}),
	}
}

func (s *Server) SetHandler(h GenerateHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// Start levanta el HTTP server y se bloquea hasta que el contexto se cancela.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/events", func(w http.ResponseWriter, r *http.Request) {
		s.handleWS(ctx, w, r)
	})

	for _, topic := range relayTopics {
		go s.relay(ctx, topic)
	}

	srv := &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("ws: shutdown error: %v", err)
		}
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// relay reenvía cada payload de un topic del bus a todos los clientes.
func (s *Server) relay(ctx context.Context, topic string) {
	ch, unsubscribe := s.bus.Subscribe(topic)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-ch:
			if !ok {
				return
			}
			s.broadcast(ctx, topic, payload)
		}
	}
}

func (s *Server) broadcast(ctx context.Context, topic string, payload any) {
	envelope := struct {
		Type string `json:"type"`
		Data any    `json:"data"`
	}{
		Type: topic,
		Data: payload,
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("ws: marshal %s: %v", topic, err)
		return
	}

	s.mu.RLock()
	clients := make([]*wsClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := c.writeJSON(json.RawMessage(raw)); err != nil {
			log.Printf("ws: removing client due to write error: %v", err)
			s.mu.Lock()
			delete(s.clients, c)
			s.mu.Unlock()
			c.conn.Close()
		}
	}
}

func (s *Server) handleWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return
	}

	client := &wsClient{conn: conn}

	s.mu.Lock()
	s.clients[client] = struct{}{}
	clientCount := len(s.clients)
	s.mu.Unlock()

	log.Printf("ws: nueva conexión desde %s (%d clientes activos)", r.RemoteAddr, clientCount)

	go s.handleClient(ctx, client)
}

func (s *Server) handleClient(ctx context.Context, client *wsClient) {
	defer func() {
		client.conn.Close()

		s.mu.Lock()
		delete(s.clients, client)
		clientCount := len(s.clients)
		s.mu.Unlock()

		log.Printf("ws: conexión cerrada (%d clientes activos)", clientCount)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgType, data, err := client.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Printf("ws: read error: %v", err)
			}
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}

		if err := s.dispatchIncoming(ctx, data); err != nil {
			log.Printf("ws: incoming dispatch error: %v", err)
		}
	}
}

type incomingPayload struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
}

func (s *Server) dispatchIncoming(ctx context.Context, data []byte) error {
	handler := s.getHandler()
	if handler == nil {
		return nil
	}

	payload := incomingPayload{}
	if err := json.Unmarshal(data, &payload); err != nil {
		// Un frame de texto plano vale como petición con la voz por defecto.
		payload.Text = strings.TrimSpace(string(data))
	} else {
		payload.Text = strings.TrimSpace(payload.Text)
	}

	if payload.Text == "" {
		return fmt.Errorf("ws: empty incoming text")
	}
	if payload.Voice == "" {
		payload.Voice = domain.DefaultVoice
	}
	if payload.Speed == 0 {
		payload.Speed = domain.DefaultSpeed
	}

	req := domain.SynthesisRequest{
		Text:  payload.Text,
		Voice: payload.Voice,
		Speed: domain.ClampSpeed(payload.Speed),
	}

	_, err := handler(ctx, req)
	return err
}

func (s *Server) getHandler() GenerateHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handler
}
