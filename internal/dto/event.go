package dto

import "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/event"

// ── events ──

// DisciplineResponse catalog entry.
type DisciplineResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Kind           string  `json:"kind"`
	Min            int     `json:"min"`
	Max            int     `json:"max"`
	ExclusionGroup *string `json:"exclusion_group,omitempty"`
}

// CategoryResponse discipline category.
type CategoryResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Color       string               `json:"color"`
	Disciplines []DisciplineResponse `json:"disciplines"`
}

// SaveRegistrationRequest full replacement of a school's registration.
type SaveRegistrationRequest struct {
	Data event.Submission `json:"data" binding:"required"`
}

// RegistrationResponse what the director portal loads.
type RegistrationResponse struct {
	IsOpen    bool               `json:"is_open"`
	Catalog   []CategoryResponse `json:"catalog"`
	Data      event.Submission   `json:"data"`
	UpdatedAt *string            `json:"updated_at,omitempty"`
}

// EventSchoolSummary one row of the admin overview.
type EventSchoolSummary struct {
	SchoolID          string  `json:"school_id"`
	CCT               string  `json:"cct"`
	Name              string  `json:"name"`
	Registered        bool    `json:"registered"`
	ActiveDisciplines int     `json:"active_disciplines"`
	Participants      int     `json:"participants"`
	UpdatedAt         *string `json:"updated_at,omitempty"`
}

// EventSummary admin overview.
type EventSummary struct {
	IsOpen         bool                 `json:"is_open"`
	MaxDisciplines int                  `json:"max_disciplines"`
	Schools        []EventSchoolSummary `json:"schools"`
}
