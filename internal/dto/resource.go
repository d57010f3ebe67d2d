package dto

// ── resources ──

// ResourceResponse institutional document.
type ResourceResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	FileName    string  `json:"file_name"`
	URL         string  `json:"url"`
	ContentType string  `json:"content_type"`
	Size        int64   `json:"size"`
	CreatedAt   string  `json:"created_at"`
}
