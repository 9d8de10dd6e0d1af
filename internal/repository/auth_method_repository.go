package repository

import (
	"context"
	"fmt"

	"github.com/iliyamo/session-auth/internal/database"
	"github.com/iliyamo/session-auth/internal/model"
)

// AuthMethodRepo persists rows of the 'authentications' table.
type AuthMethodRepo struct{ DB database.DBTX }

func NewAuthMethodRepo(db database.DBTX) *AuthMethodRepo { return &AuthMethodRepo{DB: db} }

// Create inserts m and populates its generated ID. A second method for the
// same (user, provider) or an already claimed (provider, provider_id) pair
// yields ErrDuplicate.
func (r *AuthMethodRepo) Create(ctx context.Context, m *model.AuthMethod) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO authentications (user_id, provider, password_hash, provider_id) VALUES (?,?,?,?)",
		m.UserID, string(m.Provider), nullString(m.PasswordHash), nullString(m.ProviderID))
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert authentication: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert authentication: %w", err)
	}
	m.ID = uint64(id)
	return nil
}
