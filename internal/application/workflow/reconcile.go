package workflow

import (
	"github.com/tu-usuario/tickets-pro/internal/domain/entity"
	"github.com/tu-usuario/tickets-pro/internal/domain/repository"
	"github.com/tu-usuario/tickets-pro/internal/domain/ticket"
)

// Motor de reconciliación: compara el estado de trabajo contra el
// baseline cargado al entrar en edición y produce el diff mínimo a
// enviar en lugar de reescribirlo todo. El changeset es derivado, se
// recalcula bajo demanda y nunca se persiste tal cual.

// Changeset diff mínimo entre baseline y estado actual.
type Changeset struct {
	Header repository.HeaderChanges
	Lines  []repository.LineAdjustment
}

// Empty indica que no hay nada que aplicar: reaplicar es un no-op.
func (c Changeset) Empty() bool {
	return c.Header.Empty() && len(c.Lines) == 0
}

// computeChangeset calcula el changeset completo: deltas de cabecera
// contra el baseline y ajustes de línea contra el snapshot Original que
// porta cada línea. Sin baseline (creación) no hay nada que diffear:
// el changeset es vacío por definición.
func computeChangeset(baseline, draft *entity.Ticket) Changeset {
	if baseline == nil {
		return Changeset{}
	}
	return Changeset{
		Header: headerChanges(baseline, draft),
		Lines:  lineAdjustments(draft.Lines),
	}
}

// headerChanges compara la selección actual contra la cabecera original
// e incluye solo los campos que realmente difieren. La semana y el año
// ISO derivados entran al diff junto con la fecha.
func headerChanges(baseline, draft *entity.Ticket) repository.HeaderChanges {
	var ch repository.HeaderChanges
	if baseline == nil {
		return ch
	}
	if !ticket.SameDay(draft.Date, baseline.Date) {
		d := draft.Date
		ch.Date = &d
		week, year := ticket.ISOWeek(draft.Date)
		ch.Week = &week
		ch.Year = &year
	}
	if draft.DriverCode != baseline.DriverCode || draft.DriverName != baseline.DriverName {
		dc, dn := draft.DriverCode, draft.DriverName
		ch.DriverCode = &dc
		ch.DriverName = &dn
	}
	if draft.VehicleCode != baseline.VehicleCode || draft.VehiclePlate != baseline.VehiclePlate {
		vc, vp := draft.VehicleCode, draft.VehiclePlate
		ch.VehicleCode = &vc
		ch.VehiclePlate = &vp
	}
	return ch
}

// lineAdjustments compara cada línea de trabajo contra su valor
// original:
//   - sin Original (agregada en esta sesión) y cantidad ≠ 0 → ajuste con
//     original nil;
//   - con Original y cantidad distinta → ajuste {original, nueva};
//   - sin cambio → se omite.
func lineAdjustments(lines []entity.ItemLine) []repository.LineAdjustment {
	var adjs []repository.LineAdjustment
	for i := range lines {
		l := &lines[i]
		if l.Original == nil {
			if l.Quantity.IsZero() {
				continue
			}
			adjs = append(adjs, repository.LineAdjustment{Code: l.Code, New: l.Quantity})
			continue
		}
		if !l.Quantity.Equal(l.Original.Quantity) {
			orig := l.Original.Quantity
			adjs = append(adjs, repository.LineAdjustment{Code: l.Code, Original: &orig, New: l.Quantity})
		}
	}
	return adjs
}

// advanceBaseline mueve el baseline al estado recién aplicado para que
// un segundo "aplicar" sin más ediciones reporte "nada que aplicar".
// Avanza desde el changeset enviado, nunca desde el estado de trabajo
// actual: una edición que llegue con la petición en vuelo queda fuera
// del avance y vuelve a diffear en el siguiente aplicar. linesApplied y
// headerApplied indican qué llamadas remotas tuvieron éxito; cada una
// avanza su parte del baseline de forma independiente.
func advanceBaseline(s *Session, ch Changeset, linesApplied, headerApplied bool) {
	if linesApplied {
		for _, adj := range ch.Lines {
			l := s.draft.FindLine(adj.Code)
			if l == nil {
				continue
			}
			if adj.Original == nil {
				// El servicio de bodega registra el stock inicial con la
				// cantidad aplicada; la línea nace sin bloqueo.
				l.Original = &entity.OriginalLine{Quantity: adj.New, WarehouseStock: adj.New}
				continue
			}
			if l.Original == nil {
				continue
			}
			delta := adj.New.Sub(*adj.Original)
			l.Original.Quantity = adj.New
			l.Original.WarehouseStock = l.Original.WarehouseStock.Add(delta)
		}
	}
	if headerApplied && s.baseline != nil {
		h := ch.Header
		if h.Date != nil {
			s.baseline.Date = *h.Date
		}
		if h.Week != nil {
			s.baseline.Week = *h.Week
		}
		if h.Year != nil {
			s.baseline.Year = *h.Year
		}
		if h.DriverCode != nil {
			s.baseline.DriverCode = *h.DriverCode
		}
		if h.DriverName != nil {
			s.baseline.DriverName = *h.DriverName
		}
		if h.VehicleCode != nil {
			s.baseline.VehicleCode = *h.VehicleCode
		}
		if h.VehiclePlate != nil {
			s.baseline.VehiclePlate = *h.VehiclePlate
		}
	}
}
