package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/repository"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type StateKind string

const (
	StateUninitialized    StateKind = "uninitialized"
	StateRestoring        StateKind = "restoring"
	StateUnauthenticated  StateKind = "unauthenticated"
	StateRotationRequired StateKind = "rotation_required"
	StateAuthenticated    StateKind = "authenticated"
)

// DefaultTTL is the validity window of a persisted record, measured from
// issue time. Uniform across all three portals.
const DefaultTTL = 24 * time.Hour

var (
	ErrBusy              = errors.New("another session operation is in flight")
	ErrRotationRequired  = errors.New("password rotation required")
	ErrNoRotationPending = errors.New("no rotation pending")
)

// Snapshot is the manager state exposed to the portal shell. Loading is
// true while a credential-store round-trip is outstanding.
type Snapshot struct {
	Kind      StateKind
	Principal *entity.Principal
	Profile   *entity.RoleProfile
	Loading   bool
}

// Manager owns one portal's session: the authenticated principal, the
// rotation gate, and the persisted record slot. All operations hold the
// mutex around state reads and writes; at most one Login/Rotate/Restore
// round-trip runs at a time (ErrBusy otherwise).
type Manager struct {
	portal        entity.Role
	slot          string
	authenticator *service.Authenticator
	rotator       *service.Rotator
	repo          repository.CredentialRepository
	store         RecordStore
	ttl           time.Duration
	clock         service.Clock
	logger        *logrus.Logger

	mu       sync.Mutex
	kind     StateKind
	session  *entity.Session
	inFlight bool
}

func NewManager(
	portal entity.Role,
	authenticator *service.Authenticator,
	rotator *service.Rotator,
	repo repository.CredentialRepository,
	store RecordStore,
	ttl time.Duration,
	clock service.Clock,
	logger *logrus.Logger,
) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = service.RealClock{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Manager{
		portal:        portal,
		slot:          SlotName(portal),
		authenticator: authenticator,
		rotator:       rotator,
		repo:          repo,
		store:         store,
		ttl:           ttl,
		clock:         clock,
		logger:        logger,
		kind:          StateUninitialized,
	}
}

func (m *Manager) Portal() entity.Role {
	return m.portal
}

func (m *Manager) State() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := Snapshot{Kind: m.kind, Loading: m.inFlight}
	if m.session != nil {
		principal := m.session.Principal
		snapshot.Principal = &principal
		snapshot.Profile = m.session.Profile
	}
	return snapshot
}

// Restore reads the persisted record at portal start-up. An absent,
// corrupt or expired record falls back to Unauthenticated silently. A
// surviving record is re-validated against the credential store before it
// is trusted: a principal deleted or deactivated server-side drops the
// session, a must-rotate flag flipped server-side reopens the gate. Only
// the first call does anything.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	if m.kind != StateUninitialized {
		m.mu.Unlock()
		return nil
	}
	m.kind = StateRestoring
	m.inFlight = true
	m.mu.Unlock()

	record, err := m.store.Read(m.slot)
	if err != nil {
		if !errors.Is(err, ErrNoRecord) {
			m.logger.WithError(err).WithField("portal", m.portal).Warn("dropping unreadable session record")
			_ = m.store.Delete(m.slot)
		}
		return m.finishRestore(nil, StateUnauthenticated)
	}

	age := m.clock.Now().UnixMilli() - record.Timestamp
	if age >= m.ttl.Milliseconds() {
		_ = m.store.Delete(m.slot)
		return m.finishRestore(nil, StateUnauthenticated)
	}

	// The cached principal is optimistic state only.
	fresh, err := m.repo.FindByExternalID(ctx, record.Session.Principal.ExternalID)
	if err != nil {
		m.logger.WithError(err).WithField("portal", m.portal).Warn("session re-validation unavailable, trusting cached principal")
		if record.Session.Principal.MustRotatePassword {
			return m.finishRestore(&record.Session, StateRotationRequired)
		}
		return m.finishRestore(&record.Session, StateAuthenticated)
	}
	if fresh == nil || !fresh.IsActive {
		_ = m.store.Delete(m.slot)
		return m.finishRestore(nil, StateUnauthenticated)
	}

	record.Session.Principal = *fresh
	if fresh.MustRotatePassword {
		return m.finishRestore(&record.Session, StateRotationRequired)
	}
	return m.finishRestore(&record.Session, StateAuthenticated)
}

// Login authenticates against this portal. Any of the three failure
// subkinds surfaces as the one generic ErrInvalidCredentials; the state
// stays Unauthenticated. Success persists the session and enters either
// RotationRequired or Authenticated depending on the must-rotate flag.
func (m *Manager) Login(ctx context.Context, externalID, password string) error {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return ErrBusy
	}
	if m.kind == StateRotationRequired {
		m.mu.Unlock()
		return ErrRotationRequired
	}
	m.inFlight = true
	m.mu.Unlock()

	principal, profile, err := m.authenticator.Authenticate(ctx, m.portal, externalID, password)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false

	if err != nil {
		m.session = nil
		m.kind = StateUnauthenticated
		return service.LoginError(err)
	}

	session := entity.Session{
		ID:        uuid.New(),
		Principal: *principal,
		Profile:   profile,
		IssuedAt:  m.clock.Now(),
	}
	m.session = &session
	m.persistLocked()

	if principal.MustRotatePassword {
		m.kind = StateRotationRequired
	} else {
		m.kind = StateAuthenticated
	}
	return nil
}

// Rotate completes the forced password change. Validation errors are
// surfaced verbatim and the gate stays closed; so does any store failure.
func (m *Manager) Rotate(ctx context.Context, newPassword string) error {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return ErrBusy
	}
	if m.kind != StateRotationRequired || m.session == nil {
		m.mu.Unlock()
		return ErrNoRotationPending
	}
	principal := m.session.Principal
	m.inFlight = true
	m.mu.Unlock()

	err := m.rotator.Rotate(ctx, &principal, newPassword)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false

	if err != nil {
		return err
	}

	m.session.Principal = principal
	m.persistLocked()
	m.kind = StateAuthenticated
	return nil
}

// SignOut clears the in-memory session and deletes the persisted record.
// Purely client-side: there is no server-side token to revoke. Idempotent,
// but refused with ErrBusy while a Login/Rotate round-trip is outstanding
// so its result cannot be clobbered when that call resolves.
func (m *Manager) SignOut() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight {
		return ErrBusy
	}
	if err := m.store.Delete(m.slot); err != nil {
		m.logger.WithError(err).WithField("portal", m.portal).Warn("could not delete session record")
	}
	m.session = nil
	m.kind = StateUnauthenticated
	return nil
}

func (m *Manager) finishRestore(session *entity.Session, kind StateKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false
	m.session = session
	m.kind = kind
	return nil
}

// persistLocked writes the current session to the slot with the next
// version. The slot is a best-effort client-side mirror; a write failure
// is logged, not surfaced, and does not block the state transition.
func (m *Manager) persistLocked() {
	if m.session == nil {
		return
	}
	var version uint64 = 1
	if existing, err := m.store.Read(m.slot); err == nil {
		version = existing.Version + 1
	}
	record := entity.Record{
		Session:   *m.session,
		Timestamp: m.session.IssuedAt.UnixMilli(),
		Version:   version,
	}
	if err := m.store.Write(m.slot, &record); err != nil {
		m.logger.WithError(err).WithField("portal", m.portal).Warn("could not persist session record")
	}
}
