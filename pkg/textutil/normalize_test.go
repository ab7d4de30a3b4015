package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mielsur/acopio-api/pkg/textutil"
)

func TestCodigo(t *testing.T) {
	casos := []struct {
		nombre   string
		esperado string
	}{
		{"Ulmo", "ULMO"},
		{"Mielada de Ñirre", "MIELADA-DE-NIRRE"},
		{"Quillay  del  Sur", "QUILLAY-DEL-SUR"},
		{"Multiflora (primavera)", "MULTIFLORA-PRIMAVERA"},
		{"  café orgánico  ", "CAFE-ORGANICO"},
		{"miel 2024", "MIEL-2024"},
		{"", ""},
		{"---", ""},
	}
	for _, c := range casos {
		assert.Equal(t, c.esperado, textutil.Codigo(c.nombre), "nombre: %q", c.nombre)
	}
}
