package model

import "time"

// School supervised school, table schools.
type School struct {
	SchoolID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"school_id"`
	CCT            string     `gorm:"type:varchar(20);uniqueIndex;not null"          json:"cct"`
	Name           string     `gorm:"type:varchar(200);not null"                     json:"name"`
	Locality       string     `gorm:"type:varchar(120);not null"                     json:"locality"`
	Municipality   string     `gorm:"type:varchar(120);not null;default:''"          json:"municipality"`
	Email          string     `gorm:"type:varchar(200);uniqueIndex;not null"         json:"email"`
	DirectorName   *string    `gorm:"type:varchar(200)"                              json:"director_name,omitempty"`
	PasswordHash   string     `gorm:"type:varchar(255);not null"                     json:"-"`
	StudentsMale   int        `gorm:"not null;default:0"                             json:"students_male"`
	StudentsFemale int        `gorm:"not null;default:0"                             json:"students_female"`
	LastLoginAt    *time.Time `gorm:""                                               json:"last_login_at,omitempty"`
	BaseModel
}

// TableName table name
func (School) TableName() string { return "schools" }

// SchoolProgramOverride per-school required file count, table school_program_overrides.
type SchoolProgramOverride struct {
	SchoolID  string `gorm:"type:uuid;primaryKey" json:"school_id"`
	ProgramID string `gorm:"type:uuid;primaryKey" json:"program_id"`
	NumFiles  int    `gorm:"not null"             json:"num_files"`
}

// TableName table name
func (SchoolProgramOverride) TableName() string { return "school_program_overrides" }
