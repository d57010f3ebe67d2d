package service

import (
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/period"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
)

// SeedPrograms returns the zone's compliance programs in display order.
// Día Naranja is open every month with a deadline on the 25th. Cultura de Paz
// months stay closed until an administrator opens them.
func SeedPrograms() []dto.CreateProgramRequest {
	open := func() *dto.GenerationOptions { return &dto.GenerationOptions{Active: boolPtr(true)} }

	catalog := []struct {
		name, description string
		kind              period.Kind
		labels            []string
		gen               *dto.GenerationOptions
	}{
		{"PMC", "Plan de Mejora Continua", period.Annual, nil, open()},
		{"PAEC-PEC", "Programa Escuela Aula Comunidad", period.Annual, nil, open()},
		{"Estructura Curricular", "Estructura Curricular", period.Semestral, nil, open()},
		{"Cultura de Paz", "Cultura de Paz", period.Monthly, nil,
			&dto.GenerationOptions{Active: boolPtr(false)}},
		{"Día Naranja", "Día Naranja", period.Monthly, []string{"Registro", "Evidencias"},
			&dto.GenerationOptions{Active: boolPtr(true), MonthlyDeadlineDay: intPtr(25)}},
		{"Inventarios", "Inventarios", period.Semestral, nil, open()},
	}

	out := make([]dto.CreateProgramRequest, 0, len(catalog))
	for i, p := range catalog {
		desc := p.description
		numFiles := 1
		if len(p.labels) > 0 {
			numFiles = len(p.labels)
		}
		out = append(out, dto.CreateProgramRequest{
			Name:         p.name,
			Description:  &desc,
			Kind:         string(p.kind),
			NumFiles:     numFiles,
			SlotLabels:   p.labels,
			SortOrder:    i + 1,
			AutoReminder: boolPtr(true),
			Generation:   p.gen,
		})
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }
