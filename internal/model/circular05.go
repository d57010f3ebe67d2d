package model

import (
	"time"

	"gorm.io/datatypes"
)

// Circular05Config single-row settings of the Circular 05 module, table circular05_config.
type Circular05Config struct {
	Singleton      bool   `gorm:"primaryKey;default:true"            json:"-"`
	IsActive       bool   `gorm:"not null"                           json:"is_active"`
	Recipient      string `gorm:"type:varchar(200);not null;default:''" json:"recipient"`
	RecipientTitle string `gorm:"type:varchar(200);not null;default:''" json:"recipient_title"`
	RecipientZone  string `gorm:"type:varchar(200);not null;default:''" json:"recipient_zone"`
	BaseModel
}

// TableName table name
func (Circular05Config) TableName() string { return "circular05_config" }

// Circular05Download generated document log, table circular05_downloads.
type Circular05Download struct {
	DownloadID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"download_id"`
	SchoolID   string         `gorm:"type:uuid;not null;index"                       json:"school_id"`
	EventName  string         `gorm:"type:varchar(255);not null"                     json:"event_name"`
	Data       datatypes.JSON `gorm:"type:jsonb;not null"                            json:"data"`
	School     *School        `gorm:"foreignKey:SchoolID"                            json:"school,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName table name
func (Circular05Download) TableName() string { return "circular05_downloads" }
