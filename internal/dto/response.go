package dto

// ── auth ──

// TokenResponse issued token pair.
type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token,omitempty"` // also set as cookie
	ExpiresIn    int             `json:"expires_in"`              // seconds
	User         AccountResponse `json:"user"`
}

// AccountResponse the signed-in principal, admin or school.
type AccountResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	CCT   string `json:"cct,omitempty"`
}
