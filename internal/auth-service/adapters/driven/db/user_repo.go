package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"user-auth/internal/auth-service/core/domain/models"
	"user-auth/internal/auth-service/core/myerrors"
	"user-auth/internal/auth-service/core/ports/driven"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const userColumns = `id, username, email, password_hash, date_joined, is_blocked`

type UserRepo struct {
	db driven.IDB
}

func NewUserRepo(db driven.IDB) *UserRepo {
	return &UserRepo{db: db}
}

func (ur *UserRepo) Create(ctx context.Context, user models.User) (int64, error) {
	conn := ur.db.GetConn()
	q := conn.Rebind(`
		INSERT INTO users (username, email, password_hash, date_joined, is_blocked)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	if err := conn.QueryRowxContext(ctx, q,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.DateJoined,
		user.IsBlocked,
	).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert user: %w", myerrors.ErrDuplicate)
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (ur *UserRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	return ur.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (ur *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return ur.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (ur *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return ur.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (ur *UserRepo) getOne(ctx context.Context, q string, arg any) (models.User, error) {
	conn := ur.db.GetConn()

	var u models.User
	if err := conn.GetContext(ctx, &u, conn.Rebind(q), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, myerrors.ErrNotFound
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (ur *UserRepo) List(ctx context.Context) ([]models.User, error) {
	return ur.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

func (ur *UserRepo) ListBlocked(ctx context.Context) ([]models.User, error) {
	return ur.list(ctx, `SELECT `+userColumns+` FROM users WHERE is_blocked = ? ORDER BY id`, true)
}

func (ur *UserRepo) list(ctx context.Context, q string, args ...any) ([]models.User, error) {
	conn := ur.db.GetConn()

	users := []models.User{}
	if err := conn.SelectContext(ctx, &users, conn.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

// SetBlocked flips is_blocked only when the row is still in the opposite
// state, and reports whether this call made the change.
func (ur *UserRepo) SetBlocked(ctx context.Context, email string, blocked bool) (bool, error) {
	conn := ur.db.GetConn()
	q := conn.Rebind(`UPDATE users SET is_blocked = ? WHERE email = ? AND is_blocked = ?`)

	res, err := conn.ExecContext(ctx, q, blocked, email, !blocked)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func (ur *UserRepo) Delete(ctx context.Context, id int64) error {
	conn := ur.db.GetConn()

	res, err := conn.ExecContext(ctx, conn.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return myerrors.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
