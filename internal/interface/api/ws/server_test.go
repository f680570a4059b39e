package ws

import (
	"context"
	"testing"

	"vozApp/internal/app/events"
	"vozApp/internal/domain"
)

func TestDispatchIncomingJSON(t *testing.T) {
	srv := NewServer(":0", events.NewBus())

	var got domain.SynthesisRequest
	srv.SetHandler(func(ctx context.Context, req domain.SynthesisRequest) (string, error) {
		got = req
		return "id", nil
	})

	payload := []byte(`{"text":"Bonjour","voice":"nova","speed":2.0}`)
	if err := srv.dispatchIncoming(context.Background(), payload); err != nil {
		t.Fatalf("dispatchIncoming: %v", err)
	}
	if got.Text != "Bonjour" || got.Voice != "nova" || got.Speed != 2.0 {
		t.Errorf("petición despachada: %+v", got)
	}
}

func TestDispatchIncomingPlainText(t *testing.T) {
	srv := NewServer(":0", events.NewBus())

	var got domain.SynthesisRequest
	srv.SetHandler(func(ctx context.Context, req domain.SynthesisRequest) (string, error) {
		got = req
		return "id", nil
	})

	if err := srv.dispatchIncoming(context.Background(), []byte("hola mundo")); err != nil {
		t.Fatalf("dispatchIncoming: %v", err)
	}
	if got.Text != "hola mundo" {
		t.Errorf("texto despachado: %q", got.Text)
	}
	if got.Voice != domain.DefaultVoice || got.Speed != domain.DefaultSpeed {
		t.Errorf("un frame plano usa los valores por defecto: %+v", got)
	}
}

func TestDispatchIncomingEmpty(t *testing.T) {
	srv := NewServer(":0", events.NewBus())
	srv.SetHandler(func(ctx context.Context, req domain.SynthesisRequest) (string, error) {
		t.Error("no debe despacharse una petición vacía")
		return "", nil
	})

	if err := srv.dispatchIncoming(context.Background(), []byte("   ")); err == nil {
		t.Fatal("esperaba error")
	}
	if err := srv.dispatchIncoming(context.Background(), []byte(`{"text":""}`)); err == nil {
		t.Fatal("esperaba error")
	}
}

func TestDispatchIncomingClampsSpeed(t *testing.T) {
	srv := NewServer(":0", events.NewBus())

	var got domain.SynthesisRequest
	srv.SetHandler(func(ctx context.Context, req domain.SynthesisRequest) (string, error) {
		got = req
		return "id", nil
	})

	if err := srv.dispatchIncoming(context.Background(), []byte(`{"text":"hola","speed":99}`)); err != nil {
		t.Fatalf("dispatchIncoming: %v", err)
	}
	if got.Speed != domain.MaxSpeed {
		t.Errorf("speed = %v, esperaba %v", got.Speed, domain.MaxSpeed)
	}
}

func TestDispatchIncomingWithoutHandler(t *testing.T) {
	srv := NewServer(":0", events.NewBus())
	if err := srv.dispatchIncoming(context.Background(), []byte("hola")); err != nil {
		t.Fatalf("sin handler debe ignorarse: %v", err)
	}
}
