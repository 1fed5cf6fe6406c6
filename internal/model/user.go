package model

// Role labels. Stored for information only.
const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// User represents an operator allowed to sign in.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex;size:80;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string `json:"role" gorm:"size:20;default:staff"`
}

// TableName keeps the table name used by existing deployments.
func (User) TableName() string { return "user" }
