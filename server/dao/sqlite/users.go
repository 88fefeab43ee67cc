package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/refa/server/dao"
	"github.com/google/uuid"
)

type UsersDB struct {
	db *sql.DB
}

func (repo *UsersDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		email TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		last_logout_time INTEGER NOT NULL,
		last_login_time INTEGER NOT NULL
	);`)
	return wrapDBError(err)
}

const userColumns = `id, username, password, role, email, created, modified, last_logout_time, last_login_time`

// userRow gives the values of u in the order of userColumns.
func userRow(u dao.User) []any {
	return []any{
		convertToDB_UUID(u.ID),
		u.Username,
		u.Password,
		convertToDB_Role(u.Role),
		convertToDB_Email(u.Email),
		convertToDB_Time(u.Created),
		convertToDB_Time(u.Modified),
		convertToDB_Time(u.LastLogoutTime),
		convertToDB_Time(u.LastLoginTime),
	}
}

func (repo *UsersDB) Create(ctx context.Context, user dao.User) (dao.User, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	user.ID = id
	user.Created, user.Modified, user.LastLogoutTime = now, now, now
	user.LastLoginTime = time.Time{}

	_, err = repo.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`, userRow(user)...)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, id)
}

func (repo *UsersDB) GetAll(ctx context.Context) ([]dao.User, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return all, err
		}
		all = append(all, user)
	}

	return all, wrapDBError(rows.Err())
}

// Update replaces every column of the user with the given ID except its
// creation time.
func (repo *UsersDB) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	user.Modified = time.Now()
	vals := userRow(user)

	// skip created, which is vals[5]
	args := append(append(vals[:5:5], vals[6:]...), convertToDB_UUID(id))
	n, err := rowsAffected(repo.db.ExecContext(ctx, `UPDATE users SET id=?, username=?, password=?, role=?, email=?, modified=?, last_logout_time=?, last_login_time=? WHERE id=?;`, args...))
	if err != nil {
		return dao.User{}, err
	}
	if n < 1 {
		return dao.User{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, user.ID)
}

func (repo *UsersDB) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	return scanUser(repo.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?;`, username))
}

func (repo *UsersDB) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	return scanUser(repo.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?;`, convertToDB_UUID(id)))
}

func (repo *UsersDB) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return dao.User{}, err
	}

	n, err := rowsAffected(repo.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?;`, convertToDB_UUID(id)))
	if err != nil {
		return dao.User{}, err
	}
	if n < 1 {
		return dao.User{}, dao.ErrNotFound
	}

	return user, nil
}

// Close is a no-op; the connection is shared by the store and closed by it.
func (repo *UsersDB) Close() error {
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (dao.User, error) {
	var user dao.User
	var id, role, email string
	var created, modified, logout, login int64

	err := row.Scan(&id, &user.Username, &user.Password, &role, &email, &created, &modified, &logout, &login)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}

	conversions := []struct {
		column string
		err    error
	}{
		{"id", convertFromDB_UUID(id, &user.ID)},
		{"role", convertFromDB_Role(role, &user.Role)},
		{"email", convertFromDB_Email(email, &user.Email)},
		{"created", convertFromDB_Time(created, &user.Created)},
		{"modified", convertFromDB_Time(modified, &user.Modified)},
		{"last_logout_time", convertFromDB_Time(logout, &user.LastLogoutTime)},
		{"last_login_time", convertFromDB_Time(login, &user.LastLoginTime)},
	}
	for _, c := range conversions {
		if c.err != nil {
			return dao.User{}, fmt.Errorf("stored %s of user is invalid: %w", c.column, c.err)
		}
	}

	return user, nil
}
