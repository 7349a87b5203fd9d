package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
)

// MemoryCredentialRepository keeps principals in process memory with the
// same semantics as the gorm implementation. It backs tests and embedded
// setups that run without a database.
type MemoryCredentialRepository struct {
	mu         sync.RWMutex
	nextID     uint
	principals map[uint]*entity.Principal
	profiles   map[uint]*entity.RoleProfile
}

func NewMemoryCredentialRepository() *MemoryCredentialRepository {
	return &MemoryCredentialRepository{
		nextID:     1,
		principals: make(map[uint]*entity.Principal),
		profiles:   make(map[uint]*entity.RoleProfile),
	}
}

func (r *MemoryCredentialRepository) FindByExternalID(_ context.Context, externalID string) (*entity.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.principals {
		if p.ExternalID == externalID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *MemoryCredentialRepository) FindProfile(_ context.Context, principalID uint) (*entity.RoleProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[principalID]
	if !ok {
		return nil, nil
	}
	clone := *profile
	return &clone, nil
}

func (r *MemoryCredentialRepository) Insert(_ context.Context, principal *entity.Principal, profile *entity.RoleProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.principals {
		if p.ExternalID == principal.ExternalID {
			return ErrDuplicateID
		}
	}
	now := time.Now()
	principal.ID = r.nextID
	principal.CreatedAt = now
	principal.UpdatedAt = now
	r.nextID++

	clone := *principal
	r.principals[principal.ID] = &clone
	if profile != nil {
		profile.PrincipalID = principal.ID
		profileClone := *profile
		r.profiles[principal.ID] = &profileClone
	}
	return nil
}

func (r *MemoryCredentialRepository) UpdatePassword(_ context.Context, principalID uint, hash string, clearTemp, clearMustRotate bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.principals[principalID]
	if !ok {
		return nil
	}
	p.PasswordHash = hash
	if clearTemp {
		p.TempPassword = nil
	}
	if clearMustRotate {
		p.MustRotatePassword = false
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryCredentialRepository) SetActive(_ context.Context, principalID uint, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.principals[principalID]; ok {
		p.IsActive = active
		p.UpdatedAt = time.Now()
	}
	return nil
}

func (r *MemoryCredentialRepository) CountByIDPrefix(_ context.Context, prefix string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, p := range r.principals {
		if strings.HasPrefix(p.ExternalID, prefix) {
			count++
		}
	}
	return count, nil
}
