package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/session-auth/internal/database"
	"github.com/iliyamo/session-auth/internal/model"
)

const userColumns = "id, email, name, photo, created_at, updated_at"

// UserRepo reads and writes the 'users' table. DB may be a *sql.DB or a
// *sql.Tx.
type UserRepo struct{ DB database.DBTX }

func NewUserRepo(db database.DBTX) *UserRepo { return &UserRepo{DB: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, extra ...any) (model.User, error) {
	var (
		u     model.User
		photo sql.NullString
	)
	dest := append([]any{&u.ID, &u.Email, &u.Name, &photo, &u.CreatedAt, &u.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.User{}, err
	}
	u.Photo = stringPtr(photo)
	return u, nil
}

// Create inserts u and fills in its generated ID and timestamps. The email
// is stored exactly as given.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, photo) VALUES (?,?,?)",
		u.Email, u.Name, nullString(u.Photo))
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	// Query back the full row to populate timestamps and defaults
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return fmt.Errorf("reload user %d: %w", id, err)
	}
	*u = created
	return nil
}

// GetByEmail fetches a user by exact email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	return u, notFound(err)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	return u, notFound(err)
}

// UpdateProfile overwrites the display fields synced from an external
// provider and returns the stored row.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name string, photo *string) (model.User, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, photo=? WHERE id=?",
		name, nullString(photo), id); err != nil {
		return model.User{}, fmt.Errorf("update user %d: %w", id, err)
	}
	return r.GetByID(ctx, id)
}
