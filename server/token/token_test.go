package token

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/notea/server/dao"
	"github.com/dekarrin/notea/server/dao/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func Test_Get(t *testing.T) {
	testCases := []struct {
		name      string
		target    string
		header    string
		expect    string
		expectErr bool
	}{
		{
			name:   "bearer header",
			target: "/play",
			header: "Bearer abc.def.ghi",
			expect: "abc.def.ghi",
		},
		{
			name:   "query param",
			target: "/play?token=abc.def.ghi",
			expect: "abc.def.ghi",
		},
		{
			name:   "header wins over query",
			target: "/play?token=from-query",
			header: "bearer from-header",
			expect: "from-header",
		},
		{
			name:      "none",
			target:    "/play",
			expectErr: true,
		},
		{
			name:      "basic auth",
			target:    "/play",
			header:    "Basic dXNlcjpwYXNz",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			req := httptest.NewRequest("GET", tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			actual, err := Get(req)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_GenerateValidate(t *testing.T) {
	ctx := context.Background()
	repo := inmem.NewSessionsRepository()

	sesh, err := repo.Create(ctx, dao.Session{})
	require.NoError(t, err)

	tok, err := Generate(testSecret, sesh)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		assert := assert.New(t)
		actual, err := Validate(ctx, tok, testSecret, repo)
		assert.NoError(err)
		assert.Equal(sesh.ID, actual.ID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := Validate(ctx, tok, []byte("ffffffffffffffffffffffffffffffff"), repo)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Validate(ctx, "not-a-token", testSecret, repo)
		assert.Error(t, err)
	})

	t.Run("deleted session", func(t *testing.T) {
		_, err := repo.Delete(ctx, sesh.ID)
		require.NoError(t, err)

		_, err = Validate(ctx, tok, testSecret, repo)
		assert.Error(t, err)
	})
}
