package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestISOWeek los bordes de año son el caso interesante: el año-semana
// ISO no siempre coincide con el año calendario.
func TestISOWeek(t *testing.T) {
	cases := []struct {
		date     time.Time
		wantWeek int
		wantYear int
	}{
		{date(2024, time.May, 15), 20, 2024},
		// viernes 1 de enero de 2021: semana 53 de 2020
		{date(2021, time.January, 1), 53, 2020},
		// lunes 30 de diciembre de 2024: semana 1 de 2025
		{date(2024, time.December, 30), 1, 2025},
		{date(2026, time.January, 1), 1, 2026},
	}
	for _, tc := range cases {
		week, year := ISOWeek(tc.date)
		assert.Equal(t, tc.wantWeek, week, "semana de %s", tc.date.Format("2006-01-02"))
		assert.Equal(t, tc.wantYear, year, "año ISO de %s", tc.date.Format("2006-01-02"))
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 5, 15, 8, 0, 0, 0, time.UTC)
	b := time.Date(2024, 5, 15, 23, 59, 0, 0, time.UTC)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, a.AddDate(0, 0, 1)))
}

func TestAfterDay(t *testing.T) {
	today := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	assert.False(t, AfterDay(today.Add(10*time.Hour), today), "misma fecha, otra hora: no es posterior")
	assert.True(t, AfterDay(today.AddDate(0, 0, 1), today))
	assert.True(t, AfterDay(today.AddDate(1, 0, 0), today))
	assert.False(t, AfterDay(today.AddDate(0, 0, -1), today))
}
