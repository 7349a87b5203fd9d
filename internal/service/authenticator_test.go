package service

import (
	"context"
	"testing"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testHasher = BcryptPasswordHasher{Cost: bcrypt.MinCost}

func seedPrincipal(t *testing.T, repo *repository.MemoryCredentialRepository, externalID string, role entity.Role, password string) *entity.Principal {
	t.Helper()
	hash, err := testHasher.Hash(password)
	require.NoError(t, err)
	principal := &entity.Principal{
		ExternalID:   externalID,
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
	}
	profile := &entity.RoleProfile{FullName: "Test " + externalID}
	require.NoError(t, repo.Insert(context.Background(), principal, profile))
	return principal
}

func TestAuthenticator_Success(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryCredentialRepository()
	seedPrincipal(t, repo, "TEA2025010", entity.RoleTeacher, "abc123")
	auth := NewAuthenticator(repo, testHasher)

	principal, profile, err := auth.Authenticate(ctx, entity.RoleTeacher, "TEA2025010", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "TEA2025010", principal.ExternalID)
	require.NotNil(t, profile)
	assert.Equal(t, "Test TEA2025010", profile.FullName)
}

func TestAuthenticator_LowercaseIdentifierAccepted(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryCredentialRepository()
	seedPrincipal(t, repo, "STU2025004", entity.RoleStudent, "abc123")
	auth := NewAuthenticator(repo, testHasher)

	principal, _, err := auth.Authenticate(ctx, entity.RoleStudent, "  stu2025004 ", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "STU2025004", principal.ExternalID)
}

func TestAuthenticator_RoleIsolation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryCredentialRepository()
	seedPrincipal(t, repo, "STU2025001", entity.RoleStudent, "abc123")
	auth := NewAuthenticator(repo, testHasher)

	// A student id with the correct password must not authenticate
	// against any other portal, and must look like an unknown id.
	for _, portal := range []entity.Role{entity.RoleTeacher, entity.RoleAdmin} {
		_, _, err := auth.Authenticate(ctx, portal, "STU2025001", "abc123")
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestAuthenticator_DeactivationPrecedence(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryCredentialRepository()
	principal := seedPrincipal(t, repo, "TEA2025010", entity.RoleTeacher, "newpass1")
	auth := NewAuthenticator(repo, testHasher)

	require.NoError(t, repo.SetActive(ctx, principal.ID, false))
	_, _, err := auth.Authenticate(ctx, entity.RoleTeacher, "TEA2025010", "newpass1")
	assert.ErrorIs(t, err, ErrDeactivated)

	// Reactivating with the same stored hash makes the same password work.
	require.NoError(t, repo.SetActive(ctx, principal.ID, true))
	_, _, err = auth.Authenticate(ctx, entity.RoleTeacher, "TEA2025010", "newpass1")
	assert.NoError(t, err)
}

func TestAuthenticator_Failures(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryCredentialRepository()
	seedPrincipal(t, repo, "TEA2025001", entity.RoleTeacher, "abc123")
	auth := NewAuthenticator(repo, testHasher)

	tests := []struct {
		name       string
		externalID string
		password   string
		want       error
	}{
		{name: "unknown id", externalID: "TEA2025099", password: "abc123", want: ErrNotFound},
		{name: "wrong password", externalID: "TEA2025001", password: "wrong", want: ErrBadPassword},
		{name: "empty id", externalID: "", password: "abc123", want: ErrNotFound},
		{name: "empty password", externalID: "TEA2025001", password: "", want: ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := auth.Authenticate(ctx, entity.RoleTeacher, tc.externalID, tc.password)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAuthenticator_LegacyAdminAlias(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryCredentialRepository()
	seedPrincipal(t, repo, legacyAdminID, entity.RoleAdmin, "secret1")
	auth := NewAuthenticator(repo, testHasher)

	principal, _, err := auth.Authenticate(ctx, entity.RoleAdmin, legacyAdminEmail, "secret1")
	require.NoError(t, err)
	assert.Equal(t, legacyAdminID, principal.ExternalID)

	// The alias only exists on the admin portal.
	_, _, err = auth.Authenticate(ctx, entity.RoleTeacher, legacyAdminEmail, "secret1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoginError_CollapsesAuthSubkinds(t *testing.T) {
	for _, err := range []error{ErrNotFound, ErrBadPassword, ErrDeactivated} {
		assert.Equal(t, ErrInvalidCredentials, LoginError(err))
	}
	assert.ErrorIs(t, LoginError(ErrPersistence), ErrPersistence)
}
