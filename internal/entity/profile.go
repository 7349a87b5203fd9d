package entity

import (
	"time"

	"gorm.io/datatypes"
)

// RoleProfile is the role-specific detail row linked 1:1 to a Principal.
// The auth core only fetches it after a successful authentication and
// attaches it to the session; it never interprets the fields.
type RoleProfile struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	PrincipalID uint `gorm:"uniqueIndex;not null" json:"principal_id"`

	FullName   string         `gorm:"type:varchar(120);not null" json:"full_name"`
	Department string         `gorm:"type:varchar(80)" json:"department,omitempty"`
	ClassName  string         `gorm:"type:varchar(40)" json:"class_name,omitempty"`
	Subjects   datatypes.JSON `json:"subjects,omitempty"`
	Email      *string        `gorm:"type:varchar(255)" json:"email,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
