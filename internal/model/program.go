package model

import "time"

// Program recurring obligation, table programs.
type Program struct {
	ProgramID       string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"program_id"`
	Name            string      `gorm:"type:varchar(150);uniqueIndex;not null"         json:"name"`
	Description     *string     `gorm:"type:text"                                      json:"description,omitempty"`
	Kind            string      `gorm:"type:varchar(20);not null"                      json:"kind"` // ANUAL | SEMESTRAL | MENSUAL
	NumFiles        int         `gorm:"not null;default:1"                             json:"num_files"`
	SlotLabels      StringArray `gorm:"type:text[]"                                    json:"slot_labels,omitempty"`
	SortOrder       int         `gorm:"not null;default:0"                             json:"sort_order"`
	AutoReminder    bool        `gorm:"not null"                                       json:"auto_reminder"`
	IsExtraordinary bool        `gorm:"not null;default:false"                         json:"is_extraordinary"`
	BaseModel
}

// TableName table name
func (Program) TableName() string { return "programs" }

// Period one reporting window of a program in a cycle, table periods.
// Exactly one of Month (with Year) or Semester is set, or neither.
type Period struct {
	PeriodID  string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"period_id"`
	CycleID   string       `gorm:"type:uuid;not null;index"                       json:"cycle_id"`
	ProgramID string       `gorm:"type:uuid;not null;index"                       json:"program_id"`
	Month     *int         `gorm:""                                               json:"month,omitempty"`
	Year      *int         `gorm:""                                               json:"year,omitempty"`
	Semester  *int         `gorm:""                                               json:"semester,omitempty"`
	IsActive  bool         `gorm:"not null;default:false"                         json:"is_active"`
	Deadline  *time.Time   `gorm:""                                               json:"deadline,omitempty"`
	Program   *Program     `gorm:"foreignKey:ProgramID"                           json:"program,omitempty"`
	Cycle     *SchoolCycle `gorm:"foreignKey:CycleID"                             json:"cycle,omitempty"`
	BaseModel
}

// TableName table name
func (Period) TableName() string { return "periods" }
