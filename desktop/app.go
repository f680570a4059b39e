package main

import (
	"context"
	"fmt"
	"sync"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"vozApp/internal/app/events"
	appruntime "vozApp/internal/app/runtime"
	"vozApp/internal/app/state"
)

// App puentea el runtime con el frontend del webview: expone las acciones de
// la sesión como bindings y reenvía los eventos del bus con EventsEmit.
type App struct {
	ctx           context.Context
	runtimeCancel context.CancelFunc
	runtime       *appruntime.Runtime
	busSubs       []func()
	busWG         sync.WaitGroup
}

func NewApp() *App {
	return &App{}
}

func (a *App) OnStartup(ctx context.Context) {
	a.ctx = ctx

	rtCtx, rtCancel := context.WithCancel(ctx)
	run, err := appruntime.Start(rtCtx, appruntime.Options{})
	if err != nil {
		rtCancel()
		wailsruntime.LogErrorf(ctx, "runtime start failed: %v", err)
		return
	}

	a.runtime = run
	a.runtimeCancel = rtCancel

	a.subscribeToTopic(events.TopicNotice)
	a.subscribeToTopic(events.TopicSynthesisStatus)
	a.subscribeToTopic(events.TopicPlaybackStatus)
	a.subscribeToTopic(events.TopicHistoryUpdated)
	a.subscribeToTopic(events.TopicVoicesLoaded)
}

func (a *App) OnShutdown(ctx context.Context) {
	for _, unsub := range a.busSubs {
		if unsub != nil {
			unsub()
		}
	}
	a.busSubs = nil
	a.busWG.Wait()

	if a.runtimeCancel != nil {
		a.runtimeCancel()
	}

	if a.runtime != nil {
		if err := a.runtime.Stop(); err != nil {
			wailsruntime.LogErrorf(ctx, "runtime stop error: %v", err)
		}
		a.runtime = nil
	}
}

func (a *App) subscribeToTopic(topic string) {
	if a.runtime == nil {
		return
	}
	bus := a.runtime.Bus()
	if bus == nil {
		return
	}

	ch, unsubscribe := bus.Subscribe(topic)
	a.busSubs = append(a.busSubs, unsubscribe)

	a.busWG.Add(1)
	go func() {
		defer a.busWG.Done()
		for {
			select {
			case <-a.ctx.Done():
				return
			case payload, ok := <-ch:
				if !ok {
					return
				}
				if a.ctx != nil {
					wailsruntime.EventsEmit(a.ctx, topic, payload)
				}
			}
		}
	}()
}

func (a *App) session() *state.Session {
	if a.runtime == nil {
		return nil
	}
	return a.runtime.Session()
}

// Snapshot devuelve el estado derivado de la vista.
func (a *App) Snapshot() (state.Snapshot, error) {
	s := a.session()
	if s == nil {
		return state.Snapshot{}, fmt.Errorf("sesión no disponible")
	}
	return s.Snapshot(), nil
}

func (a *App) SetText(text string) error {
	s := a.session()
	if s == nil {
		return fmt.Errorf("sesión no disponible")
	}
	s.SetText(text)
	return nil
}

func (a *App) SetVoice(id string) error {
	s := a.session()
	if s == nil {
		return fmt.Errorf("sesión no disponible")
	}
	return s.SetVoice(id)
}

func (a *App) SetSpeed(speed float64) error {
	s := a.session()
	if s == nil {
		return fmt.Errorf("sesión no disponible")
	}
	s.SetSpeed(speed)
	return nil
}

// Generate lanza la síntesis con el estado actual y devuelve el id.
func (a *App) Generate() (string, error) {
	s := a.session()
	if s == nil {
		return "", fmt.Errorf("sesión no disponible")
	}
	return s.Generate(a.ctx)
}

func (a *App) TogglePlayback() error {
	s := a.session()
	if s == nil {
		return fmt.Errorf("sesión no disponible")
	}
	return s.TogglePlayback()
}

// Download guarda el audio activo; filename vacío usa el nombre por defecto.
func (a *App) Download(filename string) (string, error) {
	s := a.session()
	if s == nil {
		return "", fmt.Errorf("sesión no disponible")
	}
	return s.Download(filename)
}

func (a *App) DeleteHistory(id string) error {
	s := a.session()
	if s == nil {
		return fmt.Errorf("sesión no disponible")
	}
	return s.DeleteHistory(a.ctx, id)
}

func (a *App) RefreshHistory() error {
	s := a.session()
	if s == nil {
		return fmt.Errorf("sesión no disponible")
	}
	return s.RefreshHistory(a.ctx)
}
