package domain

import "errors"

var (
	// ErrEmptyText se detecta en validación, antes de cualquier llamada de red.
	ErrEmptyText = errors.New("texto vacío")

	ErrTextTooLong = errors.New("texto demasiado largo")

	// ErrRateLimit corresponde a un 429 del backend.
	ErrRateLimit = errors.New("límite de peticiones alcanzado")

	// ErrBusy: ya hay una síntesis en curso; la petición se rechaza, no se encola.
	ErrBusy = errors.New("síntesis en curso")

	ErrNoResource = errors.New("no hay audio activo")
)
