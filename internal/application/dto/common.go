package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Focus control que debería recibir el foco tras un error de
	// validación (pista de UI; el núcleo nunca toca presentación).
	Focus string `json:"focus,omitempty"`
}
