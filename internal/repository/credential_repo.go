package repository

import (
	"context"
	"errors"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"

	"gorm.io/gorm"
)

var ErrDuplicateID = errors.New("duplicate external id")

type CredentialRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (*entity.Principal, error)
	FindProfile(ctx context.Context, principalID uint) (*entity.RoleProfile, error)
	Insert(ctx context.Context, principal *entity.Principal, profile *entity.RoleProfile) error
	UpdatePassword(ctx context.Context, principalID uint, hash string, clearTemp, clearMustRotate bool) error
	SetActive(ctx context.Context, principalID uint, active bool) error
	CountByIDPrefix(ctx context.Context, prefix string) (int64, error)
}

type credentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) FindByExternalID(ctx context.Context, externalID string) (*entity.Principal, error) {
	var principal entity.Principal
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&principal).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &principal, nil
}

func (r *credentialRepository) FindProfile(ctx context.Context, principalID uint) (*entity.RoleProfile, error) {
	var profile entity.RoleProfile
	err := r.db.WithContext(ctx).
		Where("principal_id = ?", principalID).
		First(&profile).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Insert writes the principal row and its profile row in one transaction.
// A unique violation on external_id surfaces as ErrDuplicateID so the
// issuer can retry with the next candidate.
func (r *credentialRepository) Insert(ctx context.Context, principal *entity.Principal, profile *entity.RoleProfile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(principal).Error; err != nil {
			return err
		}
		if profile != nil {
			profile.PrincipalID = principal.ID
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateID
	}
	return err
}

func (r *credentialRepository) UpdatePassword(ctx context.Context, principalID uint, hash string, clearTemp, clearMustRotate bool) error {
	updates := map[string]any{"password_hash": hash}
	if clearTemp {
		updates["temp_password"] = nil
	}
	if clearMustRotate {
		updates["must_rotate_password"] = false
	}
	return r.db.WithContext(ctx).
		Model(&entity.Principal{}).
		Where("id = ?", principalID).
		Updates(updates).
		Error
}

func (r *credentialRepository) SetActive(ctx context.Context, principalID uint, active bool) error {
	return r.db.WithContext(ctx).
		Model(&entity.Principal{}).
		Where("id = ?", principalID).
		Update("is_active", active).
		Error
}

func (r *credentialRepository) CountByIDPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Principal{}).
		Where("external_id LIKE ?", prefix+"%").
		Count(&count).
		Error
	return count, err
}
