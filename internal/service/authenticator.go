package service

import (
	"context"
	"strings"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/repository"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/utils"
)

// dummyPasswordHash is compared against when no principal matches, so a
// lookup miss costs the same as a password mismatch.
const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

// Backward-compatibility shim: one legacy email alias resolves to a fixed
// admin external id. Not a general email-login feature.
const (
	legacyAdminEmail = "admin@school.edu"
	legacyAdminID    = "ADM2020001"
)

// Authenticator resolves an external id and password against the
// credential store on behalf of one portal. It holds no session state.
type Authenticator struct {
	repo   repository.CredentialRepository
	hasher PasswordHasher
}

func NewAuthenticator(repo repository.CredentialRepository, hasher PasswordHasher) *Authenticator {
	return &Authenticator{repo: repo, hasher: hasher}
}

// Authenticate returns the principal and its role profile on success.
// Failure ordering: an id the portal cannot see (absent, or a role other
// than the portal's) is ErrNotFound; a deactivated account is
// ErrDeactivated before the password result is honored; only then does a
// mismatch surface as ErrBadPassword.
func (a *Authenticator) Authenticate(ctx context.Context, portal entity.Role, externalID, password string) (*entity.Principal, *entity.RoleProfile, error) {
	if strings.TrimSpace(externalID) == "" || password == "" {
		return nil, nil, ErrNotFound
	}

	identifier := utils.NormalizeIdentifier(externalID)
	if portal == entity.RoleAdmin && identifier == legacyAdminEmail {
		identifier = legacyAdminID
	}

	principal, err := a.repo.FindByExternalID(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}
	if principal == nil || principal.Role != portal {
		_ = a.hasher.Verify(dummyPasswordHash, password)
		return nil, nil, ErrNotFound
	}
	if !principal.IsActive {
		return nil, nil, ErrDeactivated
	}
	if !a.hasher.Verify(principal.PasswordHash, password) {
		return nil, nil, ErrBadPassword
	}

	profile, err := a.repo.FindProfile(ctx, principal.ID)
	if err != nil {
		return nil, nil, err
	}
	return principal, profile, nil
}
