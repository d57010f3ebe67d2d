package model

import "gorm.io/datatypes"

// EventCategory discipline category, table event_categories.
type EventCategory struct {
	CategoryID  string            `gorm:"type:varchar(60);primaryKey" json:"category_id"`
	Name        string            `gorm:"type:varchar(120);not null"  json:"name"`
	Color       string            `gorm:"type:varchar(10);not null"   json:"color"`
	SortOrder   int               `gorm:"not null;default:0"          json:"sort_order"`
	Disciplines []EventDiscipline `gorm:"foreignKey:CategoryID"       json:"disciplines,omitempty"`
}

// TableName table name
func (EventCategory) TableName() string { return "event_categories" }

// EventDiscipline catalog entry, table event_disciplines.
type EventDiscipline struct {
	DisciplineID    string  `gorm:"type:varchar(60);primaryKey"  json:"discipline_id"`
	CategoryID      string  `gorm:"type:varchar(60);not null"    json:"category_id"`
	Name            string  `gorm:"type:varchar(150);not null"   json:"name"`
	Kind            string  `gorm:"type:varchar(20);not null"    json:"kind"` // simple | individual | equipo | grupo
	MinParticipants int     `gorm:"not null;default:1"           json:"min_participants"`
	MaxParticipants int     `gorm:"not null;default:1"           json:"max_participants"`
	ExclusionGroup  *string `gorm:"type:varchar(60)"             json:"exclusion_group,omitempty"`
	SortOrder       int     `gorm:"not null;default:0"           json:"sort_order"`
}

// TableName table name
func (EventDiscipline) TableName() string { return "event_disciplines" }

// EventRegistration one document per school, table event_registrations.
// Data holds {disciplineId: {participa, numParticipantes}}.
type EventRegistration struct {
	RegistrationID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"registration_id"`
	SchoolID       string         `gorm:"type:uuid;uniqueIndex;not null"                 json:"school_id"`
	Data           datatypes.JSON `gorm:"type:jsonb;not null"                            json:"data"`
	School         *School        `gorm:"foreignKey:SchoolID"                            json:"school,omitempty"`
	BaseModel
}

// TableName table name
func (EventRegistration) TableName() string { return "event_registrations" }

// EventConfig single-row switch for registrations, table event_config.
type EventConfig struct {
	Singleton bool `gorm:"primaryKey;default:true" json:"-"`
	IsOpen    bool `gorm:"not null"                json:"is_open"`
	BaseModel
}

// TableName table name
func (EventConfig) TableName() string { return "event_config" }
