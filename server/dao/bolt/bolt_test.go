package bolt

import (
	"path/filepath"
	"testing"

	"github.com/dekarrin/notea/server/dao"
	"github.com/dekarrin/notea/server/dao/daotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SessionsBucket(t *testing.T) {
	daotest.SessionRepository(t, func(t *testing.T) dao.Store {
		st, err := NewDatastore(filepath.Join(t.TempDir(), "notea.db"))
		require.NoError(t, err)
		return st
	})
}

func Test_NewDatastore_blankPath(t *testing.T) {
	_, err := NewDatastore("  ")
	assert.Error(t, err)
}
