package model

import "time"

// SchoolCycle academic year, table school_cycles.
// A partial unique index keeps at most one row with is_active = true.
type SchoolCycle struct {
	CycleID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"cycle_id"`
	Name         string    `gorm:"type:varchar(50);uniqueIndex;not null"          json:"name"`
	StartDate    time.Time `gorm:"not null"                                       json:"start_date"`
	EndDate      time.Time `gorm:"not null"                                       json:"end_date"`
	IsActive     bool      `gorm:"not null;default:false"                         json:"is_active"`
	Announcement *string   `gorm:"type:text"                                      json:"announcement,omitempty"`
	BaseModel
}

// TableName table name
func (SchoolCycle) TableName() string { return "school_cycles" }
