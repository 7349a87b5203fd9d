package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/repository"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const (
	tempPasswordLength = 8
	issueRetries       = 5
)

type ProfileSeed struct {
	FullName   string
	Department string
	ClassName  string
	Subjects   []string
	Email      string
}

type Issued struct {
	Principal    entity.Principal
	Profile      entity.RoleProfile
	TempPassword string
}

// CredentialIssuer provisions new principals: a role-coded external id
// (prefix + year + per-role sequence) and a random temporary password the
// account holder must rotate on first login. Admin-only operation.
type CredentialIssuer struct {
	repo     repository.CredentialRepository
	hasher   PasswordHasher
	notifier CredentialNotifier
	clock    Clock
	logger   *logrus.Logger
}

func NewCredentialIssuer(
	repo repository.CredentialRepository,
	hasher PasswordHasher,
	notifier CredentialNotifier,
	clock Clock,
	logger *logrus.Logger,
) *CredentialIssuer {
	return &CredentialIssuer{
		repo:     repo,
		hasher:   hasher,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

func (i *CredentialIssuer) Issue(ctx context.Context, role entity.Role, seed ProfileSeed) (*Issued, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if strings.TrimSpace(seed.FullName) == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}

	tempPassword, err := utils.RandomPassword(tempPasswordLength)
	if err != nil {
		return nil, err
	}
	hash, err := i.hasher.Hash(tempPassword)
	if err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("%s%d", role.IDPrefix(), i.now().Year())
	count, err := i.repo.CountByIDPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	var subjects datatypes.JSON
	if len(seed.Subjects) > 0 {
		encoded, err := json.Marshal(seed.Subjects)
		if err != nil {
			return nil, err
		}
		subjects = datatypes.JSON(encoded)
	}

	// The sequence comes from a count, so a concurrent issue for the same
	// role can collide. The unique index catches that and we retry with
	// the next candidate instead of surfacing the duplicate.
	sequence := count + 1
	for attempt := 0; attempt < issueRetries; attempt++ {
		principal := entity.Principal{
			ExternalID:         fmt.Sprintf("%s%03d", prefix, sequence),
			Role:               role,
			PasswordHash:       hash,
			TempPassword:       &tempPassword,
			MustRotatePassword: true,
			IsActive:           true,
		}
		profile := entity.RoleProfile{
			FullName:   strings.TrimSpace(seed.FullName),
			Department: strings.TrimSpace(seed.Department),
			ClassName:  strings.TrimSpace(seed.ClassName),
			Subjects:   subjects,
		}
		if email := strings.TrimSpace(seed.Email); email != "" {
			profile.Email = &email
		}

		err := i.repo.Insert(ctx, &principal, &profile)
		if errors.Is(err, repository.ErrDuplicateID) {
			sequence++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		i.notify(ctx, &profile, principal.ExternalID, tempPassword)
		return &Issued{Principal: principal, Profile: profile, TempPassword: tempPassword}, nil
	}
	return nil, ErrDuplicateIdentifier
}

// notify emails the issued credentials when the seed carried an address.
// The principal row is already committed, so a send failure is logged and
// otherwise swallowed.
func (i *CredentialIssuer) notify(ctx context.Context, profile *entity.RoleProfile, externalID, tempPassword string) {
	if i.notifier == nil || profile.Email == nil {
		return
	}
	if err := i.notifier.SendCredentialNotice(ctx, *profile.Email, externalID, tempPassword); err != nil && i.logger != nil {
		i.logger.WithError(err).WithField("external_id", externalID).Warn("credential notice not sent")
	}
}

func (i *CredentialIssuer) now() time.Time {
	if i.clock == nil {
		return time.Now()
	}
	return i.clock.Now()
}
