package domain

// Voice es un perfil de locutor que expone el backend. Inmutable durante la
// sesión; el catálogo se reemplaza completo en cada recarga.
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
