package currency

import (
	"fmt"
	"strings"
)

// CentsToReais converts minor units to reais for display.
func CentsToReais(cents int64) float64 {
	return float64(cents) / 100.0
}

// FormatBRL formats minor units as a Brazilian real string, e.g. 1990 -> "R$ 19,90".
func FormatBRL(cents int64) string {
	s := fmt.Sprintf("%.2f", CentsToReais(cents))
	s = strings.ReplaceAll(s, ".", ",")
	return "R$ " + s
}
