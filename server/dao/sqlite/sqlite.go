// Package sqlite provides repositories backed by SQLite database files, using
// the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/refa/server/dao"
	"modernc.org/sqlite"
)

// sqliteConstraint is the SQLite result code for a constraint violation.
const sqliteConstraint = 19

type store struct {
	dbFilename string

	db *sql.DB

	users    *UsersDB
	automata *AutomataDB
}

// NewDatastore opens (creating if needed) the database file in storageDir and
// makes sure every table exists.
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

	st.users = &UsersDB{db: st.db}
	if err := st.users.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("%s: users table: %w", st.dbFilename, err)
	}

	st.automata = &AutomataDB{db: st.db}
	if err := st.automata.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("%s: automata table: %w", st.dbFilename, err)
	}

	return st, nil
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Automata() dao.AutomatonRepository {
	return s.automata
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
		// extended codes keep the primary code in the low byte
		if sqliteErr.Code()&0xff == sqliteConstraint {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}

// rowsAffected gives the number of rows changed by an Exec call, taking its
// results directly.
func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, wrapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapDBError(err)
	}
	return n, nil
}
