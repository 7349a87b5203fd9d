package dto

import (
	"encoding/json"
	"time"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/session"
)

type LoginRequest struct {
	ExternalID string `json:"external_id" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type RotateRequest struct {
	NewPassword string `json:"new_password" validate:"required"`
}

type IssueRequest struct {
	Role       string   `json:"role" validate:"required,oneof=admin teacher student"`
	FullName   string   `json:"full_name" validate:"required"`
	Department string   `json:"department" validate:"omitempty"`
	ClassName  string   `json:"class_name" validate:"omitempty"`
	Subjects   []string `json:"subjects" validate:"omitempty"`
	Email      string   `json:"email" validate:"omitempty,email"`
}

type IssueResponse struct {
	ExternalID   string `json:"external_id"`
	TempPassword string `json:"temp_password"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type PrincipalResponse struct {
	ID                 uint      `json:"id"`
	ExternalID         string    `json:"external_id"`
	Role               string    `json:"role"`
	MustRotatePassword bool      `json:"must_rotate_password"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

type ProfileResponse struct {
	FullName   string          `json:"full_name"`
	Department string          `json:"department,omitempty"`
	ClassName  string          `json:"class_name,omitempty"`
	Subjects   json.RawMessage `json:"subjects,omitempty"`
	Email      *string         `json:"email,omitempty"`
}

type SessionResponse struct {
	State     string             `json:"state"`
	Loading   bool               `json:"loading"`
	Principal *PrincipalResponse `json:"principal,omitempty"`
	Profile   *ProfileResponse   `json:"profile,omitempty"`
}

func PrincipalResponseFromEntity(principal *entity.Principal) *PrincipalResponse {
	if principal == nil {
		return nil
	}
	return &PrincipalResponse{
		ID:                 principal.ID,
		ExternalID:         principal.ExternalID,
		Role:               string(principal.Role),
		MustRotatePassword: principal.MustRotatePassword,
		IsActive:           principal.IsActive,
		CreatedAt:          principal.CreatedAt,
	}
}

func ProfileResponseFromEntity(profile *entity.RoleProfile) *ProfileResponse {
	if profile == nil {
		return nil
	}
	return &ProfileResponse{
		FullName:   profile.FullName,
		Department: profile.Department,
		ClassName:  profile.ClassName,
		Subjects:   json.RawMessage(profile.Subjects),
		Email:      profile.Email,
	}
}

func SessionResponseFromSnapshot(snapshot session.Snapshot) SessionResponse {
	return SessionResponse{
		State:     string(snapshot.Kind),
		Loading:   snapshot.Loading,
		Principal: PrincipalResponseFromEntity(snapshot.Principal),
		Profile:   ProfileResponseFromEntity(snapshot.Profile),
	}
}
