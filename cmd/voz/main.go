package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	appruntime "vozApp/internal/app/runtime"
	"vozApp/internal/app/state"
	"vozApp/internal/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	text := flag.String("text", "", "texto a convertir en audio")
	voice := flag.String("voice", domain.DefaultVoice, "voz a utilizar")
	speed := flag.Float64("speed", domain.DefaultSpeed, "velocidad de lectura (0.25-4.0, pasos de 0.25)")
	out := flag.String("out", "", "nombre de archivo donde guardar el mp3")
	play := flag.Bool("play", false, "reproducir el audio generado")
	showHistory := flag.Bool("history", false, "mostrar el historial y salir")
	deleteID := flag.String("delete", "", "eliminar una entrada del historial y salir")
	flag.Parse()

	oneShot := *text != "" || *showHistory || *deleteID != ""

	run, err := appruntime.Start(ctx, appruntime.Options{NoRelay: oneShot})
	if err != nil {
		log.Fatal(err)
	}
	defer run.Stop()

	session := run.Session()

	switch {
	case *showHistory:
		for _, entry := range session.Snapshot().History {
			fmt.Printf("%s  %s  voz=%s  x%.2f  %.1fs\n",
				entry.ID, entry.Timestamp.Local().Format("2006-01-02 15:04"), entry.Voice, entry.Speed, entry.Duration)
			fmt.Printf("    %s\n", entry.Text)
		}

	case *deleteID != "":
		if err := session.DeleteHistory(ctx, *deleteID); err != nil {
			log.Fatalf("no se pudo eliminar %s: %v", *deleteID, err)
		}
		log.Printf("entrada %s eliminada", *deleteID)

	case *text != "":
		session.SetText(*text)
		if err := session.SetVoice(*voice); err != nil {
			log.Fatal(err)
		}
		session.SetSpeed(*speed)

		if _, err := session.Generate(ctx); err != nil {
			log.Fatalf("síntesis fallida: %v", err)
		}

		if *out != "" {
			path, err := session.Download(*out)
			if err != nil {
				log.Fatalf("no se pudo guardar: %v", err)
			}
			log.Printf("audio guardado en %s", path)
		}

		if *play {
			if err := session.TogglePlayback(); err != nil {
				log.Fatalf("reproducción fallida: %v", err)
			}
			waitForPlayback(ctx, session)
		}

	default:
		// Sin flags: modo servicio, el relay WS queda escuchando.
		log.Println("Modo servicio: esperando peticiones por WS. Ctrl-C para salir.")
		<-ctx.Done()
	}

	log.Println("Cliente apagado.")
}

func waitForPlayback(ctx context.Context, session *state.Session) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !session.Snapshot().IsPlaying {
				return
			}
		}
	}
}
