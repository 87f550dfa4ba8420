package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseDBConnString(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Database
		expectErr bool
	}{
		{
			name:   "inmem",
			input:  "inmem",
			expect: Database{Type: DatabaseInMemory},
		},
		{
			name:   "inmem is case-insensitive",
			input:  "InMem",
			expect: Database{Type: DatabaseInMemory},
		},
		{
			name:      "inmem with params",
			input:     "inmem:/data",
			expectErr: true,
		},
		{
			name:   "sqlite",
			input:  "sqlite:/var/lib/notea",
			expect: Database{Type: DatabaseSQLite, DataDir: "/var/lib/notea"},
		},
		{
			name:      "sqlite without dir",
			input:     "sqlite",
			expectErr: true,
		},
		{
			name:   "bolt",
			input:  "bolt: /var/lib/notea/saves.db ",
			expect: Database{Type: DatabaseBolt, File: "/var/lib/notea/saves.db"},
		},
		{
			name:      "bolt without file",
			input:     "bolt:",
			expectErr: true,
		},
		{
			name:      "none",
			input:     "none",
			expectErr: true,
		},
		{
			name:      "unknown engine",
			input:     "postgres://localhost",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseDBConnString(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Config_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{
			name: "defaults",
			cfg:  Config{}.FillDefaults(),
		},
		{
			name:      "short secret",
			cfg:       Config{TokenSecret: []byte("tooshort")}.FillDefaults(),
			expectErr: true,
		},
		{
			name:      "long secret",
			cfg:       Config{TokenSecret: make([]byte, MaxSecretSize+1)}.FillDefaults(),
			expectErr: true,
		},
		{
			name:      "sqlite without dir",
			cfg:       Config{DB: Database{Type: DatabaseSQLite}}.FillDefaults(),
			expectErr: true,
		},
		{
			name:      "nothing set",
			cfg:       Config{},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_Config_FillDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{UnauthDelayMillis: -1}.FillDefaults()

	assert.Equal(DatabaseInMemory, cfg.DB.Type)
	assert.Equal(DefaultWorldFile, cfg.WorldFile)
	assert.GreaterOrEqual(len(cfg.TokenSecret), MinSecretSize)
	assert.Zero(cfg.UnauthDelay())
}
