package inmem

import (
	"testing"

	"github.com/dekarrin/notea/server/dao"
	"github.com/dekarrin/notea/server/dao/daotest"
)

func Test_SessionsRepository(t *testing.T) {
	daotest.SessionRepository(t, func(t *testing.T) dao.Store {
		return NewDatastore()
	})
}
