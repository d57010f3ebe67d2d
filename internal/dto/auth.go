package dto

// ── auth ──

// LoginRequest admins and directors sign in with email and password.
type LoginRequest struct {
	Email      string `json:"email"    binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshTokenRequest body form of the refresh token, used when the cookie
// is not available.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}
