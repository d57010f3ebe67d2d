package model

// Admin roles.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleATPAdmin   = "ATP_ADMIN"
	RoleATPReader  = "ATP_LECTOR"
	// RoleDirector is carried in tokens of school accounts only.
	RoleDirector = "DIRECTOR"
)

// Admin ATP user, table admins.
type Admin struct {
	AdminID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"admin_id"`
	Name         string `gorm:"type:varchar(150);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(200);uniqueIndex;not null"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'ATP_LECTOR'" json:"role"`
	BaseModel
}

// TableName table name
func (Admin) TableName() string { return "admins" }
