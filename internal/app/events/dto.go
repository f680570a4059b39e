package events

import "time"

// Niveles de aviso. Todos los avisos son transitorios: el frontend los
// descarta solo, ninguno bloquea la interfaz.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeInfo    = "info"
)

type NoticeDTO struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	At      string `json:"at"`
}

func NewNoticeDTO(level, message string) NoticeDTO {
	return NoticeDTO{
		Level:   level,
		Message: message,
		At:      time.Now().UTC().Format(time.RFC3339Nano),
	}
}

type SynthesisStatusDTO struct {
	State     string `json:"state"`
	RequestID string `json:"request_id,omitempty"`
	LastError string `json:"last_error,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

func NewSynthesisStatusDTO(state, requestID, lastError string) SynthesisStatusDTO {
	return SynthesisStatusDTO{
		State:     state,
		RequestID: requestID,
		LastError: lastError,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

type PlaybackStatusDTO struct {
	State      string `json:"state"`
	ResourceID string `json:"resource_id,omitempty"`
	UpdatedAt  string `json:"updated_at"`
}

func NewPlaybackStatusDTO(state, resourceID string) PlaybackStatusDTO {
	return PlaybackStatusDTO{
		State:      state,
		ResourceID: resourceID,
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
}

type HistoryUpdatedDTO struct {
	Count     int    `json:"count"`
	UpdatedAt string `json:"updated_at"`
}

func NewHistoryUpdatedDTO(count int) HistoryUpdatedDTO {
	return HistoryUpdatedDTO{
		Count:     count,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

type VoicesLoadedDTO struct {
	Count     int    `json:"count"`
	UpdatedAt string `json:"updated_at"`
}

func NewVoicesLoadedDTO(count int) VoicesLoadedDTO {
	return VoicesLoadedDTO{
		Count:     count,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
}
