package period

import (
	"fmt"
	"strings"
	"time"
)

// Obligation is one (school, period) delivery pair.
type Obligation struct {
	SchoolID string
	PeriodID string
}

// Obligations crosses periods with the school roster. Duplicate ids in
// either input never produce duplicate pairs.
func Obligations(periodIDs, schoolIDs []string) []Obligation {
	seen := make(map[Obligation]bool, len(periodIDs)*len(schoolIDs))
	out := make([]Obligation, 0, len(periodIDs)*len(schoolIDs))
	for _, p := range periodIDs {
		for _, s := range schoolIDs {
			o := Obligation{SchoolID: s, PeriodID: p}
			if seen[o] {
				continue
			}
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}

// Without drops the pairs that already exist.
func Without(wanted, existing []Obligation) []Obligation {
	have := make(map[Obligation]bool, len(existing))
	for _, o := range existing {
		have[o] = true
	}
	var out []Obligation
	for _, o := range wanted {
		if !have[o] {
			out = append(out, o)
		}
	}
	return out
}

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName returns the Spanish month name for 1..12.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

// Label is the display name of a period: the month, the semester or, for
// annual periods, the cycle name.
func Label(month, year, semester *int, cycleName string) string {
	switch {
	case month != nil:
		if year != nil {
			return fmt.Sprintf("%s %d", MonthName(*month), *year)
		}
		return MonthName(*month)
	case semester != nil:
		return fmt.Sprintf("Semestre %d", *semester)
	default:
		return cycleName
	}
}

var weekdayNames = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

// LongDate formats t in loc as "lunes, 25 de agosto de 2025".
func LongDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return fmt.Sprintf("%s, %d de %s de %d",
		weekdayNames[t.Weekday()], t.Day(), strings.ToLower(MonthName(int(t.Month()))), t.Year())
}
