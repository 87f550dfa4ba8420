// Package daotest has the tests every dao.Store backend must pass.
package daotest

import (
	"context"
	"testing"
	"time"

	"github.com/dekarrin/notea/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SessionRepository runs the dao.SessionRepository tests against stores made
// by newStore. Each subtest gets a fresh store.
func SessionRepository(t *testing.T, newStore func(t *testing.T) dao.Store) {
	ctx := context.Background()

	open := func(t *testing.T) dao.SessionRepository {
		st := newStore(t)
		t.Cleanup(func() {
			assert.NoError(t, st.Close())
		})
		return st.Sessions()
	}

	t.Run("create then get", func(t *testing.T) {
		assert := assert.New(t)
		repo := open(t)

		created, err := repo.Create(ctx, dao.Session{})
		require.NoError(t, err)
		assert.NotEqual(uuid.Nil, created.ID)
		assert.False(created.Created.IsZero())
		assert.True(created.Saved.IsZero())
		assert.Empty(created.Data)

		got, err := repo.GetByID(ctx, created.ID)
		assert.NoError(err)
		assert.Equal(created.ID, got.ID)
		assert.Equal(created.Created.Unix(), got.Created.Unix())
		assert.Empty(got.Data)
	})

	t.Run("ids are unique", func(t *testing.T) {
		repo := open(t)

		first, err := repo.Create(ctx, dao.Session{})
		require.NoError(t, err)
		second, err := repo.Create(ctx, dao.Session{})
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("update keeps data", func(t *testing.T) {
		assert := assert.New(t)
		repo := open(t)

		s, err := repo.Create(ctx, dao.Session{})
		require.NoError(t, err)

		s.Data = []byte{0x01, 0x02, 0xff}
		s.Saved = time.Unix(1700000000, 0)
		updated, err := repo.Update(ctx, s.ID, s)
		assert.NoError(err)
		assert.Equal(s.Data, updated.Data)

		got, err := repo.GetByID(ctx, s.ID)
		assert.NoError(err)
		assert.Equal([]byte{0x01, 0x02, 0xff}, got.Data)
		assert.Equal(int64(1700000000), got.Saved.Unix())
	})

	t.Run("missing ids", func(t *testing.T) {
		assert := assert.New(t)
		repo := open(t)
		id := uuid.New()

		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(err, dao.ErrNotFound)

		_, err = repo.Update(ctx, id, dao.Session{ID: id})
		assert.ErrorIs(err, dao.ErrNotFound)

		_, err = repo.Delete(ctx, id)
		assert.ErrorIs(err, dao.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		assert := assert.New(t)
		repo := open(t)

		s, err := repo.Create(ctx, dao.Session{})
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, s.ID)
		assert.NoError(err)
		assert.Equal(s.ID, deleted.ID)

		_, err = repo.GetByID(ctx, s.ID)
		assert.ErrorIs(err, dao.ErrNotFound)
	})
}
