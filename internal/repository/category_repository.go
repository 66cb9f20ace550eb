package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"inkwell/internal/model"
)

type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// CategoryRef is a client-supplied category reference. Article requests may
// name a category either by its numeric id or by its unique name; ParseRef
// decides which, and Resolve performs the lookup. A zero ref (ok == false
// from ParseRef) means no category was supplied.
type CategoryRef struct {
	ID   uint64 // non-zero when the reference is numeric
	Name string // raw input, used for by-name lookup
}

// ParseCategoryRef classifies raw input as a by-id or by-name reference.
// ok is false when the input is blank.
func ParseCategoryRef(raw string) (ref CategoryRef, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CategoryRef{}, false
	}
	ref.Name = raw
	if n, err := strconv.ParseUint(raw, 10, 64); err == nil && n > 0 {
		ref.ID = n
	}
	return ref, true
}

// Resolve looks up the referenced category: by id when the input was
// numeric, falling back to a name lookup so a category whose name happens
// to be numeric is still reachable. Returns ErrNotFound when neither
// lookup matches.
func (r *CategoryRepo) Resolve(ctx context.Context, ref CategoryRef) (model.Category, error) {
	if ref.ID != 0 {
		cat, err := r.GetByID(ctx, ref.ID)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return cat, err
		}
	}
	return r.GetByName(ctx, ref.Name)
}

// Create inserts a category. Duplicate names map to ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, name, description string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO categories (name, description) VALUES (?,?)", name, description)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.Category, error) {
	var c model.Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,description FROM categories WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

func (r *CategoryRepo) GetByName(ctx context.Context, name string) (model.Category, error) {
	var c model.Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,description FROM categories WHERE name=? LIMIT 1", name).
		Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

func (r *CategoryRepo) GetAll(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,description FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update overwrites name and description. Returns ErrNotFound for a
// missing id and ErrDuplicate for a name collision.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, name, description string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE categories SET name=?, description=? WHERE id=?", name, description, id)
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
		var exists int
		if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM categories WHERE id=?", id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes the category. Articles keep their category_id column
// nulled out so they do not dangle on a deleted category.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		"UPDATE articles SET category_id=NULL WHERE category_id=?", id); err != nil {
		return err
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx, "DELETE FROM categories WHERE id=?", id)
	if err != nil {
		return err
	}
	var n int64
	n, err = res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrNotFound
		return err
	}
	return nil
}
