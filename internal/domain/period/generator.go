// Package period derives the reporting windows a program owes within a
// school cycle and the per-school obligations attached to them.
package period

import (
	"errors"
	"fmt"
	"time"
)

// Kind is a program's periodicity.
type Kind string

const (
	Annual    Kind = "ANUAL"
	Semestral Kind = "SEMESTRAL"
	Monthly   Kind = "MENSUAL"
)

// Valid reports whether k is a known periodicity.
func (k Kind) Valid() bool {
	return k == Annual || k == Semestral || k == Monthly
}

var (
	ErrInvalidWindow = errors.New("el ciclo debe terminar después de iniciar")
	ErrUnknownKind   = errors.New("tipo de programa desconocido")
	ErrDeadlineDay   = errors.New("el día límite mensual debe estar entre 1 y 31")
)

// Window is the time span of a school cycle.
type Window struct {
	Start time.Time
	End   time.Time
}

// Options are the per-program generation inputs.
type Options struct {
	// Active is the initial active flag of every generated period.
	Active bool
	// AnnualDeadline overrides the default end-of-cycle deadline.
	AnnualDeadline *time.Time
	// SemesterDeadlines override the defaults: end of the month holding the
	// cycle midpoint for semester 1 and end of cycle for semester 2.
	SemesterDeadlines [2]*time.Time
	// MonthlyDeadlineDay gives each month a deadline on that day at
	// 23:59:59 UTC, clamped to the month length. Zero leaves months without
	// a deadline.
	MonthlyDeadlineDay int
}

// Spec is one derived period. At most one of Month and Semester is set.
type Spec struct {
	Month    *int
	Year     *int
	Semester *int
	Active   bool
	Deadline *time.Time
}

// Key is the natural key of a period inside a (cycle, program) pair.
// Zero values mean "not set".
type Key struct {
	Month    int
	Year     int
	Semester int
}

// Key returns the natural key of s.
func (s Spec) Key() Key {
	var k Key
	if s.Month != nil {
		k.Month = *s.Month
	}
	if s.Year != nil {
		k.Year = *s.Year
	}
	if s.Semester != nil {
		k.Semester = *s.Semester
	}
	return k
}

// Generate derives the periods of a program for a cycle window.
func Generate(w Window, kind Kind, opts Options) ([]Spec, error) {
	if !w.End.After(w.Start) {
		return nil, ErrInvalidWindow
	}
	if opts.MonthlyDeadlineDay < 0 || opts.MonthlyDeadlineDay > 31 {
		return nil, ErrDeadlineDay
	}

	switch kind {
	case Annual:
		deadline := endOfDay(w.End)
		if opts.AnnualDeadline != nil {
			deadline = *opts.AnnualDeadline
		}
		return []Spec{{Active: opts.Active, Deadline: &deadline}}, nil

	case Semestral:
		mid := w.Start.Add(w.End.Sub(w.Start) / 2)
		defaults := [2]time.Time{endOfMonth(mid), endOfDay(w.End)}
		specs := make([]Spec, 0, 2)
		for i := 0; i < 2; i++ {
			deadline := defaults[i]
			if opts.SemesterDeadlines[i] != nil {
				deadline = *opts.SemesterDeadlines[i]
			}
			sem := i + 1
			specs = append(specs, Spec{Semester: &sem, Active: opts.Active, Deadline: &deadline})
		}
		return specs, nil

	case Monthly:
		var specs []Spec
		for _, ym := range Months(w) {
			month, year := int(ym.Month), ym.Year
			spec := Spec{Month: &month, Year: &year, Active: opts.Active}
			if opts.MonthlyDeadlineDay > 0 {
				d := dayInMonth(ym.Year, ym.Month, opts.MonthlyDeadlineDay)
				spec.Deadline = &d
			}
			specs = append(specs, spec)
		}
		return specs, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Extraordinary is the single unified period of a one-off task.
func Extraordinary(deadline *time.Time) Spec {
	return Spec{Active: true, Deadline: deadline}
}

// YearMonth is a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Months lists every calendar month the window touches, in order.
func Months(w Window) []YearMonth {
	start, end := w.Start.UTC(), w.End.UTC()
	y, m := start.Year(), start.Month()
	var out []YearMonth
	for {
		if y > end.Year() || (y == end.Year() && m > end.Month()) {
			break
		}
		out = append(out, YearMonth{Year: y, Month: m})
		m++
		if m > time.December {
			m = time.January
			y++
		}
	}
	return out
}

// Missing filters derived specs whose natural key is already taken.
func Missing(existing []Key, derived []Spec) []Spec {
	taken := make(map[Key]bool, len(existing))
	for _, k := range existing {
		taken[k] = true
	}
	var out []Spec
	for _, s := range derived {
		if !taken[s.Key()] {
			out = append(out, s)
			taken[s.Key()] = true
		}
	}
	return out
}

func endOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

func endOfMonth(t time.Time) time.Time {
	t = t.UTC()
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return endOfDay(last)
}

func dayInMonth(year int, month time.Month, day int) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 23, 59, 59, 0, time.UTC)
}
