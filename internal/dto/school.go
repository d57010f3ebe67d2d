package dto

// ── schools ──

// CreateSchoolRequest new school account.
type CreateSchoolRequest struct {
	CCT            string  `json:"cct"             binding:"required,cct"`
	Name           string  `json:"name"            binding:"required,min=2,max=200"`
	Locality       string  `json:"locality"        binding:"required,max=120"`
	Municipality   string  `json:"municipality"    binding:"omitempty,max=120"`
	Email          string  `json:"email"           binding:"required,email"`
	Password       string  `json:"password"        binding:"required,min=6,max=72"`
	DirectorName   *string `json:"director_name"   binding:"omitempty,max=200"`
	StudentsMale   int     `json:"students_male"   binding:"min=0"`
	StudentsFemale int     `json:"students_female" binding:"min=0"`
}

// UpdateSchoolRequest partial update; nil fields are left unchanged.
type UpdateSchoolRequest struct {
	Name           *string `json:"name"            binding:"omitempty,min=2,max=200"`
	Locality       *string `json:"locality"        binding:"omitempty,max=120"`
	Municipality   *string `json:"municipality"    binding:"omitempty,max=120"`
	Email          *string `json:"email"           binding:"omitempty,email"`
	Password       *string `json:"password"        binding:"omitempty,min=6,max=72"`
	DirectorName   *string `json:"director_name"   binding:"omitempty,max=200"`
	StudentsMale   *int    `json:"students_male"   binding:"omitempty,min=0"`
	StudentsFemale *int    `json:"students_female" binding:"omitempty,min=0"`
}

// SchoolResponse school without credentials.
type SchoolResponse struct {
	ID             string         `json:"id"`
	CCT            string         `json:"cct"`
	Name           string         `json:"name"`
	Locality       string         `json:"locality"`
	Municipality   string         `json:"municipality"`
	Email          string         `json:"email"`
	DirectorName   *string        `json:"director_name,omitempty"`
	StudentsMale   int            `json:"students_male"`
	StudentsFemale int            `json:"students_female"`
	LastLoginAt    *string        `json:"last_login_at,omitempty"`
	Counts         map[string]int `json:"counts,omitempty"` // status → deliveries in the active cycle
	CreatedAt      string         `json:"created_at"`
}

// ProgramOverride per-school required file count.
type ProgramOverride struct {
	ProgramID string `json:"program_id" binding:"required,uuid"`
	NumFiles  int    `json:"num_files"  binding:"min=1,max=10"`
}

// SetOverridesRequest replaces every override of a school.
type SetOverridesRequest struct {
	Overrides []ProgramOverride `json:"overrides" binding:"dive"`
}
