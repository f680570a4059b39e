package runtime

import (
	"context"
	"fmt"
	"log"
	"sync"

	"vozApp/internal/app/audio"
	"vozApp/internal/app/events"
	"vozApp/internal/app/state"
	"vozApp/internal/domain"
	"vozApp/internal/infrastructure/backend"
	"vozApp/internal/infrastructure/config"
	ws "vozApp/internal/interface/api/ws"
	historyusecase "vozApp/internal/usecase/history"
	"vozApp/internal/usecase/synthesis"
	"vozApp/internal/usecase/voices"
)

type Options struct {
	// NoRelay desactiva el servidor WS local (modo one-shot de la CLI).
	NoRelay bool
}

// Runtime cablea el cliente completo: config, cliente HTTP del backend, bus,
// controlador de audio, usecases y la sesión. Se crea al arrancar y se
// destruye al cerrar; no hay estado persistente local.
type Runtime struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.Config
	client   *backend.Client
	bus      *events.Bus
	player   *audio.Controller
	catalog  *voices.Catalog
	history  *historyusecase.Service
	pipeline *synthesis.Service
	session  *state.Session
	wsServer *ws.Server
	wg       sync.WaitGroup
	started  bool
}

func Start(ctx context.Context, opts Options) (*Runtime, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	runtimeCtx, cancel := context.WithCancel(ctx)

	cfg, err := config.Load()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("load config: %w", err)
	}

	client := backend.NewClient(cfg.APIBaseURL)
	bus := events.NewBus()
	player := audio.NewController(bus, cfg.DownloadDir)
	catalog := voices.NewCatalog(client, bus)
	historySvc := historyusecase.NewService(client, bus)
	pipeline := synthesis.NewService(client, historySvc, player, bus)
	session := state.NewSession(catalog, historySvc, pipeline, player)

	run := &Runtime{
		ctx:      runtimeCtx,
		cancel:   cancel,
		cfg:      cfg,
		client:   client,
		bus:      bus,
		player:   player,
		catalog:  catalog,
		history:  historySvc,
		pipeline: pipeline,
		session:  session,
	}

	// Sonda de arranque: solo se registra, el cliente arranca igual.
	if err := client.Health(runtimeCtx); err != nil {
		log.Printf("backend no responde todavía: %v", err)
	}

	session.Startup(runtimeCtx)

	if !opts.NoRelay && cfg.WSAddr != "" {
		wsServer := ws.NewServer(cfg.WSAddr, bus)
		wsServer.SetHandler(func(ctx context.Context, req domain.SynthesisRequest) (string, error) {
			return pipeline.Generate(ctx, req)
		})
		run.wsServer = wsServer

		run.wg.Add(1)
		go func() {
			defer run.wg.Done()
			log.Printf("Iniciando servidor WS en %s", cfg.WSAddr)
			if err := wsServer.Start(runtimeCtx); err != nil && err != context.Canceled {
				log.Printf("ws server error: %v", err)
			}
		}()
	}

	run.started = true
	log.Println("Cliente de síntesis vocal iniciado.")
	return run, nil
}

func (r *Runtime) Stop() error {
	if r == nil || !r.started {
		return nil
	}
	r.cancel()
	r.player.Close()
	r.wg.Wait()
	r.bus.Close()
	r.started = false
	return nil
}

func (r *Runtime) Bus() *events.Bus {
	if r == nil {
		return nil
	}
	return r.bus
}

func (r *Runtime) Session() *state.Session {
	if r == nil {
		return nil
	}
	return r.session
}

func (r *Runtime) Config() *config.Config {
	if r == nil {
		return nil
	}
	return r.cfg
}
