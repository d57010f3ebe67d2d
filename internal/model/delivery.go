package model

import "time"

// File kinds and uploader roles stored in delivery_files.
const (
	FileKindDelivery   = "ENTREGA"
	FileKindCorrection = "CORRECCION"

	UploadedByDirector = "director"
	UploadedByATP      = "atp"
)

// Delivery obligation of one school for one period, table deliveries.
// (school_id, period_id) is unique.
type Delivery struct {
	DeliveryID   string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"delivery_id"`
	SchoolID     string         `gorm:"type:uuid;not null"                             json:"school_id"`
	PeriodID     string         `gorm:"type:uuid;not null"                             json:"period_id"`
	Status       string         `gorm:"type:varchar(30);not null;default:'NO_ENTREGADO'" json:"status"`
	UploadedAt   *time.Time     `gorm:""                                               json:"uploaded_at,omitempty"`
	ReviewedAt   *time.Time     `gorm:""                                               json:"reviewed_at,omitempty"`
	Observations *string        `gorm:"type:text"                                      json:"observations,omitempty"`
	School       *School        `gorm:"foreignKey:SchoolID"                            json:"school,omitempty"`
	Period       *Period        `gorm:"foreignKey:PeriodID"                            json:"period,omitempty"`
	Files        []DeliveryFile `gorm:"foreignKey:DeliveryID"                          json:"files,omitempty"`
	BaseModel
}

// TableName table name
func (Delivery) TableName() string { return "deliveries" }

// DeliveryFile uploaded artifact, table delivery_files.
type DeliveryFile struct {
	FileID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"file_id"`
	DeliveryID  string    `gorm:"type:uuid;not null;index"                       json:"delivery_id"`
	Kind        string    `gorm:"type:varchar(20);not null;default:'ENTREGA'"    json:"kind"`
	Label       string    `gorm:"type:varchar(100);not null;default:''"          json:"label"`
	Name        string    `gorm:"type:varchar(255);not null"                     json:"name"`
	BlobID      string    `gorm:"type:varchar(500);not null"                     json:"blob_id"`
	URL         string    `gorm:"type:text;not null"                             json:"url"`
	ContentType string    `gorm:"type:varchar(120);not null;default:''"          json:"content_type"`
	Size        int64     `gorm:"not null;default:0"                             json:"size"`
	UploadedBy  string    `gorm:"type:varchar(20);not null"                      json:"uploaded_by"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName table name
func (DeliveryFile) TableName() string { return "delivery_files" }

// Correction append-only ATP feedback, table corrections.
type Correction struct {
	CorrectionID string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"correction_id"`
	DeliveryID   string        `gorm:"type:uuid;not null;index"                       json:"delivery_id"`
	AdminID      string        `gorm:"type:uuid;not null;index"                       json:"admin_id"`
	Text         *string       `gorm:"type:text"                                      json:"text,omitempty"`
	FileID       *string       `gorm:"type:uuid"                                      json:"file_id,omitempty"`
	Admin        *Admin        `gorm:"foreignKey:AdminID"                             json:"admin,omitempty"`
	File         *DeliveryFile `gorm:"foreignKey:FileID"                              json:"file,omitempty"`
	CreatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName table name
func (Correction) TableName() string { return "corrections" }
