// Package session implements the per-portal session lifecycle: a state
// machine over the authenticated principal plus a durable client-side
// record slot with an expiry window.
package session

import (
	"errors"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
)

var (
	ErrNoRecord   = errors.New("no session record")
	ErrStaleWrite = errors.New("stale session record version")
)

// SlotName is the fixed durable-slot key for a portal's persisted record.
func SlotName(portal entity.Role) string {
	return string(portal) + "_session"
}

// RecordStore is one durable slot namespace. Write must refuse a record
// whose version is not newer than the stored one (ErrStaleWrite), which
// closes the last-write-wins race between overlapping logins.
type RecordStore interface {
	Read(key string) (*entity.Record, error)
	Write(key string, record *entity.Record) error
	Delete(key string) error
}
