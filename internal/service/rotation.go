package service

import (
	"context"
	"fmt"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/repository"

	"github.com/go-playground/validator/v10"
)

const MinPasswordLength = 6

type rotationInput struct {
	NewPassword string `validate:"required,min=6"`
}

// Rotator replaces a principal's temporary password with a self-chosen
// one, clearing the plaintext mirror and the must-rotate flag together.
type Rotator struct {
	repo     repository.CredentialRepository
	hasher   PasswordHasher
	validate *validator.Validate
}

func NewRotator(repo repository.CredentialRepository, hasher PasswordHasher, validate *validator.Validate) *Rotator {
	if validate == nil {
		validate = validator.New()
	}
	return &Rotator{repo: repo, hasher: hasher, validate: validate}
}

// Rotate writes the new hash and mutates the passed principal copy to
// match. A store failure leaves both the row and the copy untouched, so
// the rotation gate stays closed — no partial success.
func (r *Rotator) Rotate(ctx context.Context, principal *entity.Principal, newPassword string) error {
	if err := r.validate.Struct(rotationInput{NewPassword: newPassword}); err != nil {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	// Soft policy: the replacement should differ from the issued
	// temporary password. Only checkable while the plaintext mirror is
	// still present.
	if principal.TempPassword != nil && newPassword == *principal.TempPassword {
		return fmt.Errorf("%w: new password must differ from the temporary password", ErrValidation)
	}

	hash, err := r.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := r.repo.UpdatePassword(ctx, principal.ID, hash, true, true); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	principal.PasswordHash = hash
	principal.TempPassword = nil
	principal.MustRotatePassword = false
	return nil
}
