package billing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	folder = cases.Fold()
	upper  = cases.Upper(language.Spanish)
)

// NormalizeDescription recorta y pliega mayúsculas/minúsculas (Unicode) para comparar
// descripciones de líneas con las de los gastos.
func NormalizeDescription(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// UpperES pasa a mayúsculas con reglas del español.
func UpperES(s string) string {
	return upper.String(s)
}
