package sqlite

import (
	"testing"

	"github.com/dekarrin/notea/server/dao"
	"github.com/dekarrin/notea/server/dao/daotest"
	"github.com/stretchr/testify/require"
)

func Test_SessionsDB(t *testing.T) {
	daotest.SessionRepository(t, func(t *testing.T) dao.Store {
		st, err := NewDatastore(t.TempDir())
		require.NoError(t, err)
		return st
	})
}
