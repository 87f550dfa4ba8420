// Package inmem has a dao.Store that keeps everything in memory. Nothing
// survives the process.
package inmem

import (
	"github.com/dekarrin/notea/server/dao"
)

type store struct {
	sessions *InMemorySessionsRepository
}

func NewDatastore() dao.Store {
	return &store{
		sessions: NewSessionsRepository(),
	}
}

func (s *store) Sessions() dao.SessionRepository {
	return s.sessions
}

func (s *store) Close() error {
	return s.sessions.Close()
}
