package ticket

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tickets-pro/internal/domain"
)

// Cantidades del tiquete: punto fijo (8,2) — máximo 8 dígitos enteros y
// 2 decimales. Se acepta coma o punto como separador decimal y la
// entrada se normaliza mientras el usuario escribe.

const (
	maxIntDigits  = 8
	maxFracDigits = 2
)

// NormalizeQuantity limpia la entrada tal como se escribe: coma → punto,
// descarta cualquier carácter que no sea dígito o separador, conserva
// solo el primer separador y trunca el exceso de dígitos (8 enteros,
// 2 decimales). Una entrada vacía queda vacía (permitida mientras se
// edita; inválida al confirmar).
func NormalizeQuantity(input string) string {
	var b strings.Builder
	sepSeen := false
	intDigits := 0
	fracDigits := 0
	for _, r := range input {
		switch {
		case r >= '0' && r <= '9':
			if !sepSeen {
				if intDigits < maxIntDigits {
					b.WriteRune(r)
					intDigits++
				}
			} else if fracDigits < maxFracDigits {
				b.WriteRune(r)
				fracDigits++
			}
		case r == '.' || r == ',':
			if !sepSeen {
				b.WriteByte('.')
				sepSeen = true
			}
		}
	}
	return b.String()
}

// ParseQuantity normaliza y convierte la entrada en un decimal válido
// para confirmar: no vacío, numérico y estrictamente mayor que cero.
func ParseQuantity(input string) (decimal.Decimal, error) {
	s := NormalizeQuantity(input)
	if s == "" || s == "." {
		return decimal.Zero, domain.ErrValidation
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.ErrValidation
	}
	if !d.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrValidation
	}
	return d, nil
}

// ValidQuantity indica si la entrada pasa ParseQuantity.
func ValidQuantity(input string) bool {
	_, err := ParseQuantity(input)
	return err == nil
}
