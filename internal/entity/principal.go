package entity

import (
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// IDPrefix is the role-coded prefix of an external identifier,
// e.g. TEA2025010 for a teacher provisioned in 2025.
func (r Role) IDPrefix() string {
	switch r {
	case RoleAdmin:
		return "ADM"
	case RoleTeacher:
		return "TEA"
	case RoleStudent:
		return "STU"
	}
	return ""
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Principal is an authenticable account. TempPassword is the plaintext
// mirror of the generated temporary password; it is non-nil only while
// MustRotatePassword is set and both are cleared together on rotation.
type Principal struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ExternalID string `gorm:"type:varchar(20);uniqueIndex;not null" json:"external_id"`
	Role       Role   `gorm:"type:varchar(16);not null;index" json:"role"`

	PasswordHash       string  `gorm:"type:text;not null" json:"-"`
	TempPassword       *string `gorm:"type:varchar(64)" json:"-"`
	MustRotatePassword bool    `gorm:"not null;default:false" json:"must_rotate_password"`
	IsActive           bool    `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile *RoleProfile `json:"-"`
}
