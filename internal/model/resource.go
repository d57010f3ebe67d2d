package model

// Resource institutional document shared with every school, table resources.
type Resource struct {
	ResourceID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"resource_id"`
	Title       string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Description *string `gorm:"type:text"                                      json:"description,omitempty"`
	FileName    string  `gorm:"type:varchar(255);not null"                     json:"file_name"`
	BlobID      string  `gorm:"type:varchar(500);not null"                     json:"blob_id"`
	URL         string  `gorm:"type:text;not null"                             json:"url"`
	ContentType string  `gorm:"type:varchar(120);not null;default:''"          json:"content_type"`
	Size        int64   `gorm:"not null;default:0"                             json:"size"`
	UploadedBy  string  `gorm:"type:uuid;not null"                             json:"uploaded_by"`
	BaseModel
}

// TableName table name
func (Resource) TableName() string { return "resources" }
