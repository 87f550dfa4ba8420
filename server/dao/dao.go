// Package dao provides data access objects for use in the notea server.
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no Session has the ID asked for.
	ErrNotFound = errors.New("no session has that ID")

	// ErrSessionExists is returned when a Session is created with the ID of
	// one already stored.
	ErrSessionExists = errors.New("a session with that ID already exists")
)

// Store holds all the repositories.
type Store interface {
	Sessions() SessionRepository
	Close() error
}

// Session is a saved play session. Data is the encoded game snapshot and is
// empty until the first save.
type Session struct {
	ID      uuid.UUID
	Created time.Time
	Saved   time.Time
	Data    []byte
}

// SessionRepository stores Sessions. Lookups of an ID that does not exist
// return ErrNotFound.
type SessionRepository interface {
	// Create creates a new Session. All attributes except for auto-generated
	// fields are taken from the provided Session.
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	Update(ctx context.Context, id uuid.UUID, s Session) (Session, error)
	Delete(ctx context.Context, id uuid.UUID) (Session, error)
	Close() error
}
