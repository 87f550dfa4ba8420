// Package bolt has a dao.Store kept in a single bbolt database file.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dekarrin/notea/server/dao"
	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

const sessionsBucket = "sessions"

type store struct {
	db     *bbolt.DB
	seshes *SessionsBucket
}

// NewDatastore opens the bbolt file at path, creating it if needed.
func NewDatastore(path string) (dao.Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionsBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create %s bucket: %w", sessionsBucket, err)
	}

	return &store{db: db, seshes: &SessionsBucket{db: db}}, nil
}

func (s *store) Sessions() dao.SessionRepository {
	return s.seshes
}

func (s *store) Close() error {
	return s.db.Close()
}

// SessionsBucket keeps each Session as a JSON record keyed by its ID.
type SessionsBucket struct {
	db *bbolt.DB
}

type sessionRecord struct {
	Created int64  `json:"created"`
	Saved   int64  `json:"saved,omitempty"`
	Data    []byte `json:"data,omitempty"`
}

func (repo *SessionsBucket) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	if err := ctx.Err(); err != nil {
		return dao.Session{}, err
	}
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Session{}, fmt.Errorf("could not generate ID: %w", err)
	}

	s.ID = newUUID
	s.Created = time.Unix(time.Now().Unix(), 0)

	err = repo.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(sessionsBucket))
		if b.Get(s.ID[:]) != nil {
			return dao.ErrSessionExists
		}
		return put(b, s)
	})
	if err != nil {
		return dao.Session{}, err
	}

	return repo.GetByID(ctx, s.ID)
}

func (repo *SessionsBucket) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	if err := ctx.Err(); err != nil {
		return dao.Session{}, err
	}

	var s dao.Session
	err := repo.db.View(func(tx *bbolt.Tx) error {
		var err error
		s, err = get(tx.Bucket([]byte(sessionsBucket)), id)
		return err
	})
	return s, err
}

func (repo *SessionsBucket) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	if err := ctx.Err(); err != nil {
		return dao.Session{}, err
	}

	err := repo.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(sessionsBucket))
		if b.Get(id[:]) == nil {
			return dao.ErrNotFound
		}
		if s.ID != id {
			if b.Get(s.ID[:]) != nil {
				return dao.ErrSessionExists
			}
			if err := b.Delete(id[:]); err != nil {
				return err
			}
		}
		return put(b, s)
	})
	if err != nil {
		return dao.Session{}, err
	}

	return repo.GetByID(ctx, s.ID)
}

func (repo *SessionsBucket) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	if err := ctx.Err(); err != nil {
		return dao.Session{}, err
	}

	var s dao.Session
	err := repo.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(sessionsBucket))
		var err error
		s, err = get(b, id)
		if err != nil {
			return err
		}
		return b.Delete(id[:])
	})
	return s, err
}

// Close does nothing; the bucket is closed along with its store.
func (repo *SessionsBucket) Close() error {
	return nil
}

func put(b *bbolt.Bucket, s dao.Session) error {
	rec := sessionRecord{
		Created: s.Created.Unix(),
		Data:    s.Data,
	}
	if !s.Saved.IsZero() {
		rec.Saved = s.Saved.Unix()
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return b.Put(s.ID[:], payload)
}

func get(b *bbolt.Bucket, id uuid.UUID) (dao.Session, error) {
	payload := b.Get(id[:])
	if payload == nil {
		return dao.Session{}, dao.ErrNotFound
	}

	var rec sessionRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return dao.Session{}, fmt.Errorf("stored session %s is invalid: %w", id, err)
	}

	s := dao.Session{
		ID:      id,
		Created: time.Unix(rec.Created, 0),
		Data:    rec.Data,
	}
	if rec.Saved != 0 {
		s.Saved = time.Unix(rec.Saved, 0)
	}
	return s, nil
}
