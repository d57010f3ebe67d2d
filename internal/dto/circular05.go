package dto

import "encoding/json"

// ── circular 05 ──

// Circular05ConfigRequest module settings.
type Circular05ConfigRequest struct {
	IsActive       *bool   `json:"is_active"`
	Recipient      *string `json:"recipient"       binding:"omitempty,max=200"`
	RecipientTitle *string `json:"recipient_title" binding:"omitempty,max=200"`
	RecipientZone  *string `json:"recipient_zone"  binding:"omitempty,max=200"`
}

// Circular05ConfigResponse module settings.
type Circular05ConfigResponse struct {
	IsActive       bool   `json:"is_active"`
	Recipient      string `json:"recipient"`
	RecipientTitle string `json:"recipient_title"`
	RecipientZone  string `json:"recipient_zone"`
}

// Circular05DownloadResponse one generated document.
type Circular05DownloadResponse struct {
	ID        string          `json:"id"`
	EventName string          `json:"event_name"`
	Data      json.RawMessage `json:"data"`
	CreatedAt string          `json:"created_at"`
}

// Circular05SchoolDownloads downloads grouped by school.
type Circular05SchoolDownloads struct {
	SchoolID  string                       `json:"school_id"`
	CCT       string                       `json:"cct"`
	Name      string                       `json:"name"`
	Downloads []Circular05DownloadResponse `json:"downloads"`
}
