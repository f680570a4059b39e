package domain

import "time"

// HistoryEntry es una conversión pasada, tal y como la devuelve el backend.
// El id y el timestamp los asigna el servidor.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Voice     string    `json:"voice"`
	Speed     float64   `json:"speed"`
	Duration  float64   `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryDraft es el payload de alta en el historial: sin id ni timestamp.
type HistoryDraft struct {
	Text     string  `json:"text"`
	Voice    string  `json:"voice"`
	Speed    float64 `json:"speed"`
	Duration float64 `json:"duration"`
}

// HistoryTextLimit es el máximo de caracteres que se guardan por entrada.
const HistoryTextLimit = 100

// TruncateText recorta text a limit runas y añade "…" si hubo recorte.
func TruncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}
