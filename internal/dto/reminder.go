package dto

// ── reminders & status ──

// ReminderResult counts of a reminder batch. Field names are consumed by
// the external scheduler.
type ReminderResult struct {
	Sent      int `json:"enviados"`
	Failed    int `json:"fallidos"`
	Evaluated int `json:"evaluados"`
}

// ManualReminderRequest optional custom text for manual reminders.
type ManualReminderRequest struct {
	Message string `json:"message" binding:"max=2000"`
}

// PendingSchool one school still owing a delivery.
type PendingSchool struct {
	CCT    string `json:"cct"`
	Name   string `json:"nombre"`
	Email  string `json:"email"`
	Status string `json:"estado"`
	Files  int    `json:"archivos"`
}

// ProgramStatus per-program counters of the status summary.
type ProgramStatus struct {
	ProgramID       string          `json:"programa_id"`
	Program         string          `json:"programa"`
	Kind            string          `json:"tipo"`
	ActivePeriods   int             `json:"periodos_activos"`
	Approved        int             `json:"aprobadas"`
	Pending         int             `json:"pendientes"`
	InReview        int             `json:"en_revision"`
	NeedsCorrection int             `json:"requiere_correccion"`
	NotApproved     int             `json:"no_aprobado"`
	NotDelivered    int             `json:"no_entregadas"`
	Total           int             `json:"total"`
	PendingSchools  []PendingSchool `json:"escuelas_pendientes"`
}

// StatusSummary read-only summary for polling automation.
type StatusSummary struct {
	Cycle       string          `json:"ciclo"`
	GeneratedAt string          `json:"generado"`
	Programs    []ProgramStatus `json:"programas"`
}
