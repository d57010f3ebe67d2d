package dto

// ── deliveries ──

// UpdateStatusRequest direct review by the ATP.
type UpdateStatusRequest struct {
	Status       string  `json:"status"       binding:"required"`
	Observations *string `json:"observations" binding:"omitempty,max=5000"`
}

// RegisterFileRequest records a blob the client uploaded directly.
type RegisterFileRequest struct {
	Label       string `json:"label"        binding:"max=100"`
	Name        string `json:"name"         binding:"required,max=255"`
	BlobID      string `json:"blob_id"      binding:"required,max=500"`
	URL         string `json:"url"          binding:"required,url"`
	ContentType string `json:"content_type" binding:"max=120"`
	Size        int64  `json:"size"         binding:"min=0"`
}

// FileResponse attached file.
type FileResponse struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Label       string `json:"label"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	UploadedBy  string `json:"uploaded_by"`
	CreatedAt   string `json:"created_at"`
}

// CorrectionResponse one entry of the correction log.
type CorrectionResponse struct {
	ID        string        `json:"id"`
	Text      *string       `json:"text,omitempty"`
	AdminName string        `json:"admin_name"`
	File      *FileResponse `json:"file,omitempty"`
	CreatedAt string        `json:"created_at"`
}

// DeliveryResponse delivery obligation of one school for one period.
type DeliveryResponse struct {
	ID           string               `json:"id"`
	SchoolID     string               `json:"school_id"`
	CCT          string               `json:"cct,omitempty"`
	SchoolName   string               `json:"school_name,omitempty"`
	PeriodID     string               `json:"period_id"`
	PeriodLabel  string               `json:"period_label,omitempty"`
	ProgramName  string               `json:"program_name,omitempty"`
	Deadline     *string              `json:"deadline,omitempty"`
	Status       string               `json:"status"`
	StatusLabel  string               `json:"status_label"`
	UploadedAt   *string              `json:"uploaded_at,omitempty"`
	ReviewedAt   *string              `json:"reviewed_at,omitempty"`
	Observations *string              `json:"observations,omitempty"`
	Slots        []string             `json:"slots,omitempty"`
	MissingSlots []string             `json:"missing_slots,omitempty"`
	Files        []FileResponse       `json:"files"`
	Corrections  []CorrectionResponse `json:"corrections,omitempty"`
}

// ProgramDeliveries director dashboard group.
type ProgramDeliveries struct {
	ProgramID   string             `json:"program_id"`
	ProgramName string             `json:"program_name"`
	Kind        string             `json:"kind"`
	Deliveries  []DeliveryResponse `json:"deliveries"`
}

// DirectorDashboard what a director sees on sign-in.
type DirectorDashboard struct {
	School       SchoolResponse      `json:"school"`
	Cycle        *CycleResponse      `json:"cycle,omitempty"`
	Announcement *string             `json:"announcement,omitempty"`
	Programs     []ProgramDeliveries `json:"programs"`
}
