package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/refa/server/dao"
	"github.com/google/uuid"
)

type AutomataDB struct {
	db *sql.DB
}

func (repo *AutomataDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS automata (
		id TEXT NOT NULL PRIMARY KEY,
		owner_id TEXT NOT NULL,
		pattern TEXT NOT NULL,
		strict INTEGER NOT NULL,
		postfix TEXT NOT NULL,
		diagnostics TEXT NOT NULL,
		dfa TEXT NOT NULL,
		created INTEGER NOT NULL,
		seq INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}

	return nil
}

const automatonColumns = `id, owner_id, pattern, strict, postfix, diagnostics, dfa, created`

func (repo *AutomataDB) Create(ctx context.Context, a dao.Automaton) (dao.Automaton, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Automaton{}, fmt.Errorf("could not generate ID: %w", err)
	}

	strict := 0
	if a.Strict {
		strict = 1
	}

	// seq keeps insertion order for automata created within the same second
	_, err = repo.db.ExecContext(ctx, `INSERT INTO automata (`+automatonColumns+`, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM automata));`,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(a.OwnerID),
		a.Pattern,
		strict,
		a.Postfix,
		convertToDB_Strings(a.Diagnostics),
		convertToDB_DFA(a.DFA),
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Automaton{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *AutomataDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Automaton, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT `+automatonColumns+` FROM automata WHERE id = ?;`, convertToDB_UUID(id))
	return scanAutomaton(row)
}

func (repo *AutomataDB) GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]dao.Automaton, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT `+automatonColumns+` FROM automata WHERE owner_id = ? ORDER BY seq;`, convertToDB_UUID(owner))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Automaton
	for rows.Next() {
		a, err := scanAutomaton(rows)
		if err != nil {
			return all, err
		}
		all = append(all, a)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *AutomataDB) Delete(ctx context.Context, id uuid.UUID) (dao.Automaton, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	n, err := rowsAffected(repo.db.ExecContext(ctx, `DELETE FROM automata WHERE id = ?;`, convertToDB_UUID(id)))
	if err != nil {
		return curVal, err
	}
	if n < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *AutomataDB) DeleteAllByOwner(ctx context.Context, owner uuid.UUID) (int, error) {
	n, err := rowsAffected(repo.db.ExecContext(ctx, `DELETE FROM automata WHERE owner_id = ?;`, convertToDB_UUID(owner)))
	return int(n), err
}

// Close is a no-op; the connection is shared by the store and closed by it.
func (repo *AutomataDB) Close() error {
	return nil
}

func scanAutomaton(row scanner) (dao.Automaton, error) {
	var a dao.Automaton
	var id string
	var owner string
	var strict int
	var diags string
	var dfa string
	var created int64

	err := row.Scan(
		&id,
		&owner,
		&a.Pattern,
		&strict,
		&a.Postfix,
		&diags,
		&dfa,
		&created,
	)
	if err != nil {
		return dao.Automaton{}, wrapDBError(err)
	}

	a.Strict = strict != 0

	err = convertFromDB_UUID(id, &a.ID)
	if err != nil {
		return a, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	err = convertFromDB_UUID(owner, &a.OwnerID)
	if err != nil {
		return a, fmt.Errorf("stored owner ID %q is invalid: %w", owner, err)
	}
	err = convertFromDB_Strings(diags, &a.Diagnostics)
	if err != nil {
		return a, fmt.Errorf("stored diagnostics are invalid: %w", err)
	}
	err = convertFromDB_DFA(dfa, &a.DFA)
	if err != nil {
		return a, fmt.Errorf("stored DFA is invalid: %w", err)
	}
	err = convertFromDB_Time(created, &a.Created)
	if err != nil {
		return a, fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}

	return a, nil
}
