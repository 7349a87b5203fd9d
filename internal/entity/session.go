package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the client-held record of an authenticated Principal for one
// portal. It is never stored server-side; its only durable form is Record.
type Session struct {
	ID        uuid.UUID    `json:"id"`
	Principal Principal    `json:"principal"`
	Profile   *RoleProfile `json:"profile,omitempty"`
	IssuedAt  time.Time    `json:"issued_at"`
}

// Record is the persisted mirror of a Session, written to the portal's
// durable slot on every successful login. Version increases monotonically
// so a stale concurrent write can be refused by the store.
type Record struct {
	Session   Session `json:"data"`
	Timestamp int64   `json:"timestamp"`
	Version   uint64  `json:"version"`
}
