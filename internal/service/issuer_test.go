package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var clock2025 = fixedClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}

type fakeNotifier struct {
	email        string
	externalID   string
	tempPassword string
	err          error
	calls        int
}

func (n *fakeNotifier) SendCredentialNotice(_ context.Context, email, externalID, tempPassword string) error {
	n.calls++
	n.email = email
	n.externalID = externalID
	n.tempPassword = tempPassword
	return n.err
}

func TestCredentialIssuer_Issue(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryCredentialRepository()
	hasher := BcryptPasswordHasher{Cost: bcrypt.MinCost}
	issuer := NewCredentialIssuer(repo, hasher, nil, clock2025, nil)

	issued, err := issuer.Issue(ctx, entity.RoleTeacher, ProfileSeed{
		FullName:   "Ama Mensah",
		Department: "Science",
		Subjects:   []string{"Physics", "Chemistry"},
	})
	require.NoError(t, err)

	assert.Equal(t, "TEA2025001", issued.Principal.ExternalID)
	assert.Equal(t, entity.RoleTeacher, issued.Principal.Role)
	assert.True(t, issued.Principal.MustRotatePassword)
	assert.True(t, issued.Principal.IsActive)
	require.NotNil(t, issued.Principal.TempPassword)
	assert.Equal(t, issued.TempPassword, *issued.Principal.TempPassword)
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9]{8}$`), issued.TempPassword)
	assert.True(t, hasher.Verify(issued.Principal.PasswordHash, issued.TempPassword))
	assert.Equal(t, "Ama Mensah", issued.Profile.FullName)

	stored, err := repo.FindByExternalID(ctx, "TEA2025001")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.MustRotatePassword)
}

func TestCredentialIssuer_Issue_SequencePerRoleAndYear(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryCredentialRepository()
	issuer := NewCredentialIssuer(repo, BcryptPasswordHasher{Cost: bcrypt.MinCost}, nil, clock2025, nil)

	for i := 0; i < 9; i++ {
		_, err := issuer.Issue(ctx, entity.RoleTeacher, ProfileSeed{FullName: "Teacher"})
		require.NoError(t, err)
	}
	tenth, err := issuer.Issue(ctx, entity.RoleTeacher, ProfileSeed{FullName: "Teacher"})
	require.NoError(t, err)
	assert.Equal(t, "TEA2025010", tenth.Principal.ExternalID)

	// Sequences are independent per role.
	student, err := issuer.Issue(ctx, entity.RoleStudent, ProfileSeed{FullName: "Student"})
	require.NoError(t, err)
	assert.Equal(t, "STU2025001", student.Principal.ExternalID)
}

func TestCredentialIssuer_Issue_RetriesOnDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryCredentialRepository()
	issuer := NewCredentialIssuer(repo, BcryptPasswordHasher{Cost: bcrypt.MinCost}, nil, clock2025, nil)

	// One row with a gapped id: the count-derived candidate TEA2025002
	// collides and must be retried, never surfacing the duplicate.
	require.NoError(t, repo.Insert(ctx, &entity.Principal{
		ExternalID: "TEA2025002", Role: entity.RoleTeacher, PasswordHash: "h", IsActive: true,
	}, nil))

	issued, err := issuer.Issue(ctx, entity.RoleTeacher, ProfileSeed{FullName: "Teacher"})
	require.NoError(t, err)
	assert.Equal(t, "TEA2025003", issued.Principal.ExternalID)
}

func TestCredentialIssuer_Issue_Validation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryCredentialRepository()
	issuer := NewCredentialIssuer(repo, BcryptPasswordHasher{Cost: bcrypt.MinCost}, nil, clock2025, nil)

	tests := []struct {
		name string
		role entity.Role
		seed ProfileSeed
	}{
		{name: "missing full name", role: entity.RoleStudent, seed: ProfileSeed{}},
		{name: "blank full name", role: entity.RoleStudent, seed: ProfileSeed{FullName: "   "}},
		{name: "unknown role", role: entity.Role("janitor"), seed: ProfileSeed{FullName: "Kofi"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := issuer.Issue(ctx, tc.role, tc.seed)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCredentialIssuer_Issue_Notifies(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryCredentialRepository()
	notifier := &fakeNotifier{}
	issuer := NewCredentialIssuer(repo, BcryptPasswordHasher{Cost: bcrypt.MinCost}, notifier, clock2025, nil)

	issued, err := issuer.Issue(ctx, entity.RoleStudent, ProfileSeed{FullName: "Kofi Boateng", Email: "kofi@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "kofi@example.com", notifier.email)
	assert.Equal(t, issued.Principal.ExternalID, notifier.externalID)
	assert.Equal(t, issued.TempPassword, notifier.tempPassword)
}

func TestCredentialIssuer_Issue_NotifyFailureDoesNotFailIssue(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryCredentialRepository()
	notifier := &fakeNotifier{err: errors.New("smtp down")}
	issuer := NewCredentialIssuer(repo, BcryptPasswordHasher{Cost: bcrypt.MinCost}, notifier, clock2025, nil)

	issued, err := issuer.Issue(ctx, entity.RoleStudent, ProfileSeed{FullName: "Kofi Boateng", Email: "kofi@example.com"})
	require.NoError(t, err)

	stored, err := repo.FindByExternalID(ctx, issued.Principal.ExternalID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}
