package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/notea/server/dao"
	"github.com/google/uuid"
)

type SessionsDB struct {
	db *sql.DB
}

func (repo *SessionsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL PRIMARY KEY,
		created INTEGER NOT NULL,
		saved INTEGER NOT NULL,
		data TEXT NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *SessionsDB) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Session{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.PrepareContext(ctx, `INSERT INTO sessions (id, created, saved, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	defer stmt.Close()

	now := time.Now()
	_, err = stmt.ExecContext(ctx,
		newUUID.String(),
		now.Unix(),
		timeToDB(s.Saved),
		base64.StdEncoding.EncodeToString(s.Data),
	)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *SessionsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	s := dao.Session{
		ID: id,
	}
	var created int64
	var saved int64
	var encData string

	row := repo.db.QueryRowContext(ctx, `SELECT created, saved, data FROM sessions WHERE id = ?;`,
		id.String(),
	)
	err := row.Scan(
		&created,
		&saved,
		&encData,
	)
	if err != nil {
		return s, wrapDBError(err)
	}

	s.Created = time.Unix(created, 0)
	s.Saved = timeFromDB(saved)

	s.Data, err = base64.StdEncoding.DecodeString(encData)
	if err != nil {
		return s, fmt.Errorf("stored game data for %s is invalid: %w", s.ID.String(), err)
	}
	if len(s.Data) == 0 {
		s.Data = nil
	}

	return s, nil
}

func (repo *SessionsDB) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE sessions SET id=?, created=?, saved=?, data=? WHERE id=?;`,
		s.ID.String(),
		s.Created.Unix(),
		timeToDB(s.Saved),
		base64.StdEncoding.EncodeToString(s.Data),
		id.String(),
	)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Session{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, s.ID)
}

func (repo *SessionsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id.String())
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *SessionsDB) Close() error {
	return repo.db.Close()
}

// zero time is stored as 0 rather than its (negative) unix time.
func timeToDB(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeFromDB(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
