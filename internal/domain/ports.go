package domain

import "context"

// SpeechGenerator convierte texto en un payload de audio binario.
type SpeechGenerator interface {
	Generate(ctx context.Context, req SynthesisRequest) ([]byte, error)
}

// VoiceCatalog enumera las voces disponibles en el backend.
type VoiceCatalog interface {
	ListVoices(ctx context.Context) ([]Voice, error)
}

// HistoryStore es el backend como fuente de verdad del historial.
// La lista local siempre es un reemplazo completo, nunca un parche.
type HistoryStore interface {
	ListHistory(ctx context.Context) ([]HistoryEntry, error)
	AppendHistory(ctx context.Context, draft HistoryDraft) (*HistoryEntry, error)
	DeleteHistory(ctx context.Context, id string) error
}
