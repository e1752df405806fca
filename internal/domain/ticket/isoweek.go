package ticket

import "time"

// ISOWeek devuelve la semana y el año-semana ISO-8601 de una fecha
// (regla del jueves: la semana pertenece al año que contiene su jueves).
// El par derivado se recalcula en cada cambio de fecha del tiquete y
// participa en el diff de cabecera.
func ISOWeek(t time.Time) (week, year int) {
	year, week = t.ISOWeek()
	return week, year
}

// SameDay compara dos fechas con granularidad de día (ignora la hora).
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AfterDay indica si a es posterior a b comparando solo el día.
func AfterDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}
