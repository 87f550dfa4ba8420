// Package sqlite has a dao.Store kept in a SQLite database file in a data
// directory.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/notea/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string

	db     *sql.DB
	seshes *SessionsDB
}

func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: "data.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}
	// every game on the server saves through this handle; one connection
	// keeps writers from failing with SQLITE_BUSY.
	st.db.SetMaxOpenConns(1)

	st.seshes = &SessionsDB{db: st.db}
	if err := st.seshes.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("%s: %w", st.dbFilename, err)
	}

	return st, nil
}

func (s *store) Sessions() dao.SessionRepository {
	return s.seshes
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrSessionExists
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
