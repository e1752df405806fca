package workflow

import (
	"testing"
	"time"

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

func baselineTicket() *entity.Ticket {
	return &entity.Ticket{
		Number: "T100", Type: "A",
		Date: time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
		Week: 20, Year: 2024,
		DriverCode: "D1", DriverName: "Pedro Pérez",
		VehicleCode: "V1", VehiclePlate: "ABC123",
	}
}

func TestComputeChangeset_SinBaseline(t *testing.T) {
	draft := baselineTicket()
	draft.Lines = []entity.ItemLine{
		{Code: "X1", Quantity: qty("12.5")},
		{Code: "Y1", Quantity: qty("3")},
	}
	ch := computeChangeset(nil, draft)
	assert.True(t, ch.Empty(), "en creación no hay baseline y el diff es vacío")
}

func TestComputeChangeset_SinCambios(t *testing.T) {
	base := baselineTicket()
	draft := base.Clone()
	draft.Lines = []entity.ItemLine{
		{Code: "X1", Quantity: qty("10.00"), Original: &entity.OriginalLine{Quantity: qty("10"), WarehouseStock: qty("10")}},
	}
	ch := computeChangeset(base, draft)
	assert.True(t, ch.Empty(), "10.00 y 10 son la misma cantidad")
}

func TestHeaderChanges_Fecha(t *testing.T) {
	base := baselineTicket()
	draft := base.Clone()
	draft.Date = time.Date(2024, 12, 30, 10, 30, 0, 0, time.UTC)

	ch := headerChanges(base, draft)
	require.NotNil(t, ch.Date)
	require.NotNil(t, ch.Week)
	require.NotNil(t, ch.Year)
	// 2024-12-30 es lunes de la semana 1 del año ISO 2025.
	assert.Equal(t, 1, *ch.Week)
	assert.Equal(t, 2025, *ch.Year)
	assert.Nil(t, ch.DriverCode)
	assert.Nil(t, ch.VehicleCode)
}

func TestHeaderChanges_MismaFechaDistintaHora(t *testing.T) {
	base := baselineTicket()
	draft := base.Clone()
	draft.Date = base.Date.Add(14 * time.Hour)

	ch := headerChanges(base, draft)
	assert.True(t, ch.Empty(), "la comparación de fecha es a granularidad de día")
}

func TestHeaderChanges_Transporte(t *testing.T) {
	base := baselineTicket()
	draft := base.Clone()
	draft.DriverCode, draft.DriverName = "D2", "Ana Gómez"

	ch := headerChanges(base, draft)
	require.NotNil(t, ch.DriverCode)
	assert.Equal(t, "D2", *ch.DriverCode)
	assert.Equal(t, "Ana Gómez", *ch.DriverName)
	assert.Nil(t, ch.Date)
	assert.Nil(t, ch.VehicleCode)
}

func TestLineAdjustments(t *testing.T) {
	lines := []entity.ItemLine{
		// sin cambio: fuera del diff
		{Code: "A", Quantity: qty("10"), Original: &entity.OriginalLine{Quantity: qty("10.00"), WarehouseStock: qty("10")}},
		// cambiada: par {original, nueva}
		{Code: "B", Quantity: qty("15"), Original: &entity.OriginalLine{Quantity: qty("10"), WarehouseStock: qty("10")}},
		// agregada en la sesión con cantidad: original nil
		{Code: "C", Quantity: qty("7.25")},
		// agregada sin cantidad aún: fuera del diff
		{Code: "D"},
	}

	adjs := lineAdjustments(lines)
	require.Len(t, adjs, 2)

	assert.Equal(t, "B", adjs[0].Code)
	require.NotNil(t, adjs[0].Original)
	assert.True(t, adjs[0].Original.Equal(qty("10")))
	assert.True(t, adjs[0].New.Equal(qty("15")))

	assert.Equal(t, "C", adjs[1].Code)
	assert.Nil(t, adjs[1].Original, "línea nueva: sin valor original")
	assert.True(t, adjs[1].New.Equal(qty("7.25")))
}

// TestAdvanceBaseline tras aplicar, recalcular el changeset debe dar
// vacío y las líneas deben seguir sin bloqueo (el stock de bodega se
// mueve junto con la cantidad aplicada).
func TestAdvanceBaseline(t *testing.T) {
	s := newSession(ModeEdit)
	s.baseline = baselineTicket()
	s.draft = s.baseline.Clone()
	s.draft.Date = time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	s.draft.Lines = []entity.ItemLine{
		{Code: "B", Quantity: qty("15"), Original: &entity.OriginalLine{Quantity: qty("10"), WarehouseStock: qty("10")}},
		{Code: "C", Quantity: qty("7.25")},
	}

	ch := computeChangeset(s.baseline, s.draft)
	require.False(t, ch.Empty())

	advanceBaseline(s, ch, true, true)

	after := computeChangeset(s.baseline, s.draft)
	assert.True(t, after.Empty(), "reaplicar sin más ediciones es un no-op")

	b := s.draft.FindLine("B")
	require.NotNil(t, b)
	assert.False(t, b.Locked(), "el stock avanza con la cantidad: sigue sin bloqueo")
	assert.True(t, b.Original.WarehouseStock.Equal(qty("15")))

	c := s.draft.FindLine("C")
	require.NotNil(t, c)
	require.NotNil(t, c.Original, "la línea agregada gana su snapshot original")
	assert.False(t, c.Locked())

	assert.True(t, s.baseline.Date.Equal(s.draft.Date))
}

// TestAdvanceBaseline_SoloLineas un fallo de cabecera no avanza el
// baseline de cabecera: el delta de fecha sigue pendiente.
func TestAdvanceBaseline_SoloLineas(t *testing.T) {
	s := newSession(ModeEdit)
	s.baseline = baselineTicket()
	s.draft = s.baseline.Clone()
	s.draft.Date = time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	s.draft.Lines = []entity.ItemLine{
		{Code: "B", Quantity: qty("15"), Original: &entity.OriginalLine{Quantity: qty("10"), WarehouseStock: qty("10")}},
	}

	ch := computeChangeset(s.baseline, s.draft)
	advanceBaseline(s, ch, true, false)

	after := computeChangeset(s.baseline, s.draft)
	assert.Empty(t, after.Lines)
	assert.False(t, after.Header.Empty(), "el cambio de fecha queda pendiente de reintento")
}

// TestAdvanceBaseline_EdicionPosterior el baseline avanza desde el
// changeset enviado, no desde el estado de trabajo: una cantidad
// editada después de armar el changeset no se absorbe y sigue
// apareciendo como diff pendiente.
func TestAdvanceBaseline_EdicionPosterior(t *testing.T) {
	s := newSession(ModeEdit)
	s.baseline = baselineTicket()
	s.draft = s.baseline.Clone()
	s.draft.Lines = []entity.ItemLine{
		{Code: "B", Quantity: qty("15"), Original: &entity.OriginalLine{Quantity: qty("10"), WarehouseStock: qty("10")}},
	}

	ch := computeChangeset(s.baseline, s.draft)
	require.Len(t, ch.Lines, 1)

	// El usuario siguió tecleando con la petición en vuelo.
	s.draft.Lines[0].Quantity = qty("20")

	advanceBaseline(s, ch, true, true)

	b := s.draft.FindLine("B")
	require.NotNil(t, b)
	assert.True(t, b.Original.Quantity.Equal(qty("15")), "el original avanza a lo aplicado, no a lo tecleado")
	assert.True(t, b.Original.WarehouseStock.Equal(qty("15")))
	assert.False(t, b.Locked())

	after := computeChangeset(s.baseline, s.draft)
	require.Len(t, after.Lines, 1, "la edición posterior sigue pendiente")
	require.NotNil(t, after.Lines[0].Original)
	assert.True(t, after.Lines[0].Original.Equal(qty("15")))
	assert.True(t, after.Lines[0].New.Equal(qty("20")))
}
