// Package textutil normaliza nombres de tipos de miel a códigos estables:
// mayúsculas ASCII sin acentos, con guiones ("Mielada de Ñirre" →
// "MIELADA-DE-NIRRE").
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var quitarDiacriticos = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Codigo deriva un código estable a partir de un nombre: quita diacríticos,
// pasa a mayúsculas y reemplaza separadores por guiones. La ñ se normaliza a
// N por la descomposición NFD.
func Codigo(nombre string) string {
	plano, _, err := transform.String(quitarDiacriticos, nombre)
	if err != nil {
		plano = nombre
	}
	plano = strings.ToUpper(strings.TrimSpace(plano))

	var b strings.Builder
	ultimoGuion := false
	for _, r := range plano {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			ultimoGuion = false
		default:
			if !ultimoGuion && b.Len() > 0 {
				b.WriteByte('-')
				ultimoGuion = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
