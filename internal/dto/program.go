package dto

// ── programs & periods ──

// GenerationOptions how periods are derived for the active cycle.
// Dates are RFC 3339.
type GenerationOptions struct {
	Active             *bool     `json:"active"`
	AnnualDeadline     *string   `json:"annual_deadline"`
	SemesterDeadlines  []*string `json:"semester_deadlines" binding:"omitempty,max=2"`
	MonthlyDeadlineDay *int      `json:"monthly_deadline_day" binding:"omitempty,min=1,max=31"`
}

// CreateProgramRequest new program; its periods and deliveries are
// generated for the active cycle.
type CreateProgramRequest struct {
	Name         string             `json:"name"          binding:"required,min=2,max=150"`
	Description  *string            `json:"description"`
	Kind         string             `json:"kind"          binding:"required,oneof=ANUAL SEMESTRAL MENSUAL"`
	NumFiles     int                `json:"num_files"     binding:"omitempty,min=1,max=10"`
	SlotLabels   []string           `json:"slot_labels"   binding:"omitempty,max=10,dive,max=100"`
	SortOrder    int                `json:"sort_order"`
	AutoReminder *bool              `json:"auto_reminder"`
	Generation   *GenerationOptions `json:"generation"`
}

// UpdateProgramRequest partial update.
type UpdateProgramRequest struct {
	Name        *string  `json:"name"        binding:"omitempty,min=2,max=150"`
	Description *string  `json:"description"`
	NumFiles    *int     `json:"num_files"   binding:"omitempty,min=1,max=10"`
	SlotLabels  []string `json:"slot_labels" binding:"omitempty,max=10,dive,max=100"`
	SortOrder   *int     `json:"sort_order"`
}

// ToggleRequest generic on/off switch.
type ToggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// ExtraordinaryRequest one-off task for every school.
type ExtraordinaryRequest struct {
	Name        string  `json:"name"        binding:"required,min=2,max=150"`
	Description *string `json:"description"`
	NumFiles    int     `json:"num_files"   binding:"omitempty,min=1,max=10"`
	Deadline    *string `json:"deadline"` // RFC 3339
}

// DeadlineRequest sets or clears (null) a period deadline.
type DeadlineRequest struct {
	Deadline *string `json:"deadline"`
}

// GenerationResult rows created by a generation run.
type GenerationResult struct {
	Periods    int `json:"periods"`
	Deliveries int `json:"deliveries"`
}

// PeriodResponse one reporting window.
type PeriodResponse struct {
	ID        string  `json:"id"`
	ProgramID string  `json:"program_id"`
	CycleID   string  `json:"cycle_id"`
	Label     string  `json:"label"`
	Month     *int    `json:"month,omitempty"`
	Year      *int    `json:"year,omitempty"`
	Semester  *int    `json:"semester,omitempty"`
	IsActive  bool    `json:"is_active"`
	Deadline  *string `json:"deadline,omitempty"`
}

// ProgramResponse program with its periods in the active cycle.
type ProgramResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     *string           `json:"description,omitempty"`
	Kind            string            `json:"kind"`
	NumFiles        int               `json:"num_files"`
	SlotLabels      []string          `json:"slot_labels"`
	SortOrder       int               `json:"sort_order"`
	AutoReminder    bool              `json:"auto_reminder"`
	IsExtraordinary bool              `json:"is_extraordinary"`
	Periods         []PeriodResponse  `json:"periods,omitempty"`
	Generated       *GenerationResult `json:"generated,omitempty"`
}
