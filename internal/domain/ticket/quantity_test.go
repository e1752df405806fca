package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuantity(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"coma como separador", "12,5", "12.5"},
		{"punto como separador", "12.5", "12.5"},
		{"solo el primer separador cuenta", "1.2.3", "1.23"},
		{"coma y punto mezclados", "1,2.3", "1.23"},
		{"caracteres extraños descartados", " 1a2 b,5x", "12.5"},
		{"truncado a dos decimales", "3.14159", "3.14"},
		{"truncado a ocho enteros", "123456789", "12345678"},
		{"truncado en ambas partes", "123456789.999", "12345678.99"},
		{"vacío queda vacío", "", ""},
		{"separador solo", ",", "."},
		{"cero permitido al teclear", "0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeQuantity(tc.input))
		})
	}
}

func TestParseQuantity(t *testing.T) {
	d, err := ParseQuantity("12,50")
	require.NoError(t, err)
	assert.Equal(t, "12.5", d.String())

	for _, input := range []string{"", ".", ",", "0", "0.00", "abc", " "} {
		_, err := ParseQuantity(input)
		assert.Error(t, err, "entrada %q debe rechazarse al confirmar", input)
	}
}

func TestValidQuantity(t *testing.T) {
	assert.True(t, ValidQuantity("0.01"))
	assert.True(t, ValidQuantity("12345678.99"))
	assert.False(t, ValidQuantity(""))
	assert.False(t, ValidQuantity("0"))
}
