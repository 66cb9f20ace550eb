package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"inkwell/internal/model"
	"inkwell/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,role,bio,profile_image,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.Bio, &u.ProfileImage, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// Create inserts a user and returns its ID. The first user ever registered
// becomes an admin; the promotion happens inside the same transaction as the
// insert so concurrent first registrations cannot both claim the role.
func (r *UserRepo) Create(ctx context.Context, username, email, password string, cost int) (id uint64, role string, err error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, "", err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else if err = tx.Commit(); err != nil {
			id, role = 0, ""
		}
	}()

	// Locking read: a plain COUNT under REPEATABLE READ is a snapshot read,
	// so two concurrent first registrations would both see 0 and both insert
	// an admin. FOR UPDATE makes the second transaction wait on the first.
	var count int
	if err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users FOR UPDATE").Scan(&count); err != nil {
		return 0, "", err
	}
	role = model.RoleUser
	if count == 0 {
		role = model.RoleAdmin
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role, bio, profile_image) VALUES (?,?,?,?,'','')",
		username, email, hash, role)
	if err != nil {
		if isDuplicateKey(err) {
			err = ErrDuplicate
		}
		return 0, "", err
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, "", err
	}
	return uint64(lastID), role, nil
}

// GetByUsername fetches a user by username for login.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.TrimSpace(username)
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetAll returns every user ordered by id.
func (r *UserRepo) GetAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
			&u.Bio, &u.ProfileImage, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UserUpdate carries the optional fields of a user update. Nil pointers
// leave the corresponding column untouched. Password must already be hashed.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Bio          *string
	ProfileImage *string
	Role         *string
}

// Update applies the non-nil fields of upd to the user and refreshes
// updated_at. Returns ErrNotFound when the user does not exist and
// ErrDuplicate when a new username or email is already taken.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate) error {
	set := []string{}
	args := []any{}
	appendSet := func(col string, v *string) {
		if v != nil {
			set = append(set, col+"=?")
			args = append(args, *v)
		}
	}
	appendSet("username", upd.Username)
	appendSet("email", upd.Email)
	appendSet("password_hash", upd.PasswordHash)
	appendSet("bio", upd.Bio)
	appendSet("profile_image", upd.ProfileImage)
	appendSet("role", upd.Role)
	if len(set) == 0 {
		return nil
	}
	set = append(set, "updated_at=NOW()")
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Could also mean the values were identical; confirm existence.
		var exists int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=?", id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes the user record. Articles, reviews and likes created by
// the user are intentionally left in place.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateKey reports whether err is a MySQL 1062 duplicate-entry error.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
