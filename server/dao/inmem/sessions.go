package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/notea/server/dao"
	"github.com/google/uuid"
)

func NewSessionsRepository() *InMemorySessionsRepository {
	return &InMemorySessionsRepository{
		sessions: make(map[uuid.UUID]dao.Session),
	}
}

// InMemorySessionsRepository is safe for concurrent use; every connection's
// game saves through it.
type InMemorySessionsRepository struct {
	mtx      sync.RWMutex
	sessions map[uuid.UUID]dao.Session
}

func (imsr *InMemorySessionsRepository) Close() error {
	return nil
}

func (imsr *InMemorySessionsRepository) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Session{}, fmt.Errorf("could not generate ID: %w", err)
	}

	s.ID = newUUID
	s.Created = time.Unix(time.Now().Unix(), 0)
	s.Data = copyBytes(s.Data)

	imsr.mtx.Lock()
	defer imsr.mtx.Unlock()
	imsr.sessions[s.ID] = s

	return s, nil
}

func (imsr *InMemorySessionsRepository) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	imsr.mtx.Lock()
	defer imsr.mtx.Unlock()

	if _, ok := imsr.sessions[id]; !ok {
		return dao.Session{}, dao.ErrNotFound
	}

	if s.ID != id {
		// that's okay but we need to check it
		if _, ok := imsr.sessions[s.ID]; ok {
			return dao.Session{}, dao.ErrSessionExists
		}
	}

	s.Data = copyBytes(s.Data)
	imsr.sessions[s.ID] = s
	if s.ID != id {
		delete(imsr.sessions, id)
	}

	return s, nil
}

func (imsr *InMemorySessionsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	imsr.mtx.RLock()
	defer imsr.mtx.RUnlock()

	s, ok := imsr.sessions[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}
	s.Data = copyBytes(s.Data)

	return s, nil
}

func (imsr *InMemorySessionsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	imsr.mtx.Lock()
	defer imsr.mtx.Unlock()

	s, ok := imsr.sessions[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}

	delete(imsr.sessions, s.ID)

	return s, nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
