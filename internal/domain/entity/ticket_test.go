package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/tickets-pro/internal/domain/entity"
)

func qty(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// TestItemLineLocked el bloqueo es derivado, nunca almacenado: una
// línea queda bloqueada exactamente cuando el stock externo registrado
// difiere de su cantidad original.
func TestItemLineLocked(t *testing.T) {
	sinOriginal := entity.ItemLine{Code: "A", Quantity: qty("10")}
	assert.False(t, sinOriginal.Locked(), "línea nueva: sin snapshot no hay bloqueo")

	intacta := entity.ItemLine{Code: "B", Quantity: qty("12"),
		Original: &entity.OriginalLine{Quantity: qty("10"), WarehouseStock: qty("10")}}
	assert.False(t, intacta.Locked(), "stock igual a la cantidad original: editable")

	consumida := entity.ItemLine{Code: "C", Quantity: qty("10"),
		Original: &entity.OriginalLine{Quantity: qty("10"), WarehouseStock: qty("4")}}
	assert.True(t, consumida.Locked(), "stock movido externamente: bloqueada")
}

// TestTicketClone la copia es profunda: mutar el clon no toca el
// original, incluido el snapshot de cada línea.
func TestTicketClone(t *testing.T) {
	orig := &entity.Ticket{
		Number: "T1", Type: "A",
		Lines: []entity.ItemLine{
			{Code: "X", Quantity: qty("10"),
				Original: &entity.OriginalLine{Quantity: qty("10"), WarehouseStock: qty("10")}},
		},
	}

	clone := orig.Clone()
	clone.Lines[0].Quantity = qty("99")
	clone.Lines[0].Original.WarehouseStock = qty("0")

	assert.True(t, orig.Lines[0].Quantity.Equal(qty("10")))
	assert.True(t, orig.Lines[0].Original.WarehouseStock.Equal(qty("10")))
	assert.False(t, orig.Lines[0].Locked(), "el original no debe bloquearse por mutar el clon")
}

func TestTicketRemoveLine(t *testing.T) {
	tk := &entity.Ticket{Lines: []entity.ItemLine{{Code: "X"}, {Code: "Y"}}}

	assert.True(t, tk.RemoveLine("X"))
	assert.False(t, tk.RemoveLine("X"), "quitar dos veces el mismo código es no-op")
	require.Len(t, tk.Lines, 1)
	assert.True(t, tk.HasLine("Y"))
	assert.Nil(t, tk.FindLine("X"))
}
