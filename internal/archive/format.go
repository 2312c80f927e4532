package archive

import (
	"fmt"
	"time"
)

var monthsES = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}

// ProcessedDate formats t the way es-ES short dates look, e.g.
// "14 oct 2026, 15:04".
func ProcessedDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d, %02d:%02d", t.Day(), monthsES[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// ResultCount is the line shown under the search box.
func ResultCount(n int) string {
	if n == 1 {
		return "1 resultado encontrado"
	}
	return fmt.Sprintf("%d resultados encontrados", n)
}

// OrPlaceholder returns v or the placeholder shown for unanswered fields.
func OrPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
