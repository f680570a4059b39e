package domain

import "math"

const (
	MaxTextLength = 50000

	MinSpeed     = 0.25
	MaxSpeed     = 4.0
	SpeedStep    = 0.25
	DefaultSpeed = 1.0

	DefaultVoice = "onyx"
)

// SynthesisRequest se construye nueva en cada generación; no se persiste.
type SynthesisRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
}

// ClampSpeed ajusta speed a la rejilla de pasos de 0.25 dentro de
// [MinSpeed, MaxSpeed]. Nunca se envía al backend un valor fuera de rango.
func ClampSpeed(speed float64) float64 {
	if math.IsNaN(speed) {
		return DefaultSpeed
	}
	steps := math.Round(speed / SpeedStep)
	speed = steps * SpeedStep
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}
