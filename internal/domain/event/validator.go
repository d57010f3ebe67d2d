// Package event validates a school's event registration against the
// discipline catalog.
package event

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the participation shape of a discipline.
type Kind string

const (
	Simple     Kind = "simple"
	Individual Kind = "individual"
	Team       Kind = "equipo"
	Group      Kind = "grupo"
)

// Discipline is one catalog entry.
type Discipline struct {
	ID   string
	Name string
	Kind Kind
	Min  int
	Max  int
	// ExclusionGroup links mutually exclusive disciplines; empty means none.
	ExclusionGroup string
}

// Entry is a school's answer for one discipline.
type Entry struct {
	Participates bool `json:"participa"`
	Participants int  `json:"numParticipantes"`
}

// Submission maps discipline id to entry.
type Submission map[string]Entry

// ValidationError carries every violation found in a submission.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "registro inválido: " + strings.Join(e.Problems, "; ")
}

// Validate checks a submission and returns *ValidationError listing every
// violation, or nil when the submission can be stored as is.
func Validate(catalog []Discipline, sub Submission) error {
	index := make(map[string]int, len(catalog))
	for i, d := range catalog {
		index[d.ID] = i
	}

	// catalog order first, unknown ids after in lexical order
	ids := make([]string, 0, len(sub))
	for id, e := range sub {
		if e.Participates {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, aok := index[ids[i]]
		b, bok := index[ids[j]]
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		default:
			return ids[i] < ids[j]
		}
	})

	var problems []string
	var groupOrder []string
	active := make(map[string][]string)

	for _, id := range ids {
		i, ok := index[id]
		if !ok {
			problems = append(problems, fmt.Sprintf("Disciplina desconocida: %s", id))
			continue
		}
		d := catalog[i]
		n := sub[id].Participants
		if n < d.Min || n > d.Max {
			problems = append(problems, fmt.Sprintf("%s: participantes debe ser entre %d y %d", d.Name, d.Min, d.Max))
		}
		if d.ExclusionGroup != "" {
			if _, seen := active[d.ExclusionGroup]; !seen {
				groupOrder = append(groupOrder, d.ExclusionGroup)
			}
			active[d.ExclusionGroup] = append(active[d.ExclusionGroup], d.Name)
		}
	}

	for _, g := range groupOrder {
		if names := active[g]; len(names) > 1 {
			problems = append(problems, fmt.Sprintf("Solo puede elegir una opción en el grupo %q: %s", g, strings.Join(names, ", ")))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// MaxPossible counts standalone disciplines plus one per exclusion group.
func MaxPossible(catalog []Discipline) int {
	groups := make(map[string]bool)
	n := 0
	for _, d := range catalog {
		if d.ExclusionGroup == "" {
			n++
			continue
		}
		if !groups[d.ExclusionGroup] {
			groups[d.ExclusionGroup] = true
			n++
		}
	}
	return n
}

// Summary returns the number of disciplines marked as participating and the
// participants they add up to.
func Summary(sub Submission) (active, participants int) {
	for _, e := range sub {
		if e.Participates {
			active++
			participants += e.Participants
		}
	}
	return active, participants
}
