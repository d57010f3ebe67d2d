package dto

// ── admins ──

// CreateAdminRequest new ATP account; role defaults to ATP_LECTOR.
type CreateAdminRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=150"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role"     binding:"omitempty,oneof=SUPER_ADMIN ATP_ADMIN ATP_LECTOR"`
}

// UpdateAdminRequest partial update.
type UpdateAdminRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=2,max=150"`
	Role     *string `json:"role"     binding:"omitempty,oneof=SUPER_ADMIN ATP_ADMIN ATP_LECTOR"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
}

// AdminResponse ATP account without credentials.
type AdminResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}
