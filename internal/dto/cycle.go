package dto

// ── cycles ──

// CreateCycleRequest new school cycle; dates are "2006-01-02".
type CreateCycleRequest struct {
	Name      string `json:"name"       binding:"required,min=4,max=50"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
}

// AnnouncementRequest global message for directors; empty clears it.
type AnnouncementRequest struct {
	Announcement string `json:"announcement" binding:"max=2000"`
}

// CycleResponse school cycle.
type CycleResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	IsActive     bool    `json:"is_active"`
	Announcement *string `json:"announcement,omitempty"`
}
