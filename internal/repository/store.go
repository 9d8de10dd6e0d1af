package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/session-auth/internal/database"
	"github.com/iliyamo/session-auth/internal/model"
)

// CredentialStore is everything the session manager needs from
// persistence. Reads run directly against the store; writes that must be
// atomic go through WithinTx.
type CredentialStore interface {
	FindUserByEmail(ctx context.Context, email string) (model.User, error)
	FindUserByID(ctx context.Context, id uint64) (model.User, error)
	// FindPasswordLogin returns the user with the given email together with
	// its password method. The method is the zero value when the account
	// has no password method.
	FindPasswordLogin(ctx context.Context, email string) (model.User, model.AuthMethod, error)
	FindExternalLogin(ctx context.Context, provider model.Provider, providerID string) (model.User, model.AuthMethod, error)
	UpdateUserProfile(ctx context.Context, id uint64, name string, photo *string) (model.User, error)
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx CredentialTx) error) error
}

// CredentialTx is the write side of the store available inside a
// transaction scope.
type CredentialTx interface {
	InsertUser(ctx context.Context, u *model.User) error
	InsertAuthMethod(ctx context.Context, m *model.AuthMethod) error
}

var _ CredentialStore = (*Store)(nil)

// Store implements CredentialStore on MySQL.
type Store struct {
	db      *sql.DB
	users   *UserRepo
	methods *AuthMethodRepo
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, users: NewUserRepo(db), methods: NewAuthMethodRepo(db)}
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *Store) FindUserByID(ctx context.Context, id uint64) (model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Store) UpdateUserProfile(ctx context.Context, id uint64, name string, photo *string) (model.User, error) {
	return s.users.UpdateProfile(ctx, id, name, photo)
}

func (s *Store) FindPasswordLogin(ctx context.Context, email string) (model.User, model.AuthMethod, error) {
	const q = `SELECT u.id, u.email, u.name, u.photo, u.created_at, u.updated_at, a.id, a.password_hash
               FROM users u
               LEFT JOIN authentications a ON a.user_id = u.id AND a.provider = 'password'
               WHERE u.email = ?
               LIMIT 1`
	var (
		methodID sql.NullInt64
		hash     sql.NullString
	)
	u, err := scanUser(s.db.QueryRowContext(ctx, q, email), &methodID, &hash)
	if err != nil {
		return model.User{}, model.AuthMethod{}, notFound(err)
	}
	var m model.AuthMethod
	if methodID.Valid {
		m = model.AuthMethod{
			ID:           uint64(methodID.Int64),
			UserID:       u.ID,
			Provider:     model.ProviderPassword,
			PasswordHash: stringPtr(hash),
		}
	}
	return u, m, nil
}

func (s *Store) FindExternalLogin(ctx context.Context, provider model.Provider, providerID string) (model.User, model.AuthMethod, error) {
	const q = `SELECT u.id, u.email, u.name, u.photo, u.created_at, u.updated_at, a.id
               FROM authentications a
               JOIN users u ON u.id = a.user_id
               WHERE a.provider = ? AND a.provider_id = ?
               LIMIT 1`
	var methodID uint64
	u, err := scanUser(s.db.QueryRowContext(ctx, q, string(provider), providerID), &methodID)
	if err != nil {
		return model.User{}, model.AuthMethod{}, notFound(err)
	}
	pid := providerID
	return u, model.AuthMethod{ID: methodID, UserID: u.ID, Provider: provider, ProviderID: &pid}, nil
}

// WithinTx runs fn against repositories bound to a single transaction.
// Nothing fn writes is visible unless it returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx CredentialTx) error) error {
	return database.WithTx(ctx, s.db, nil, func(ctx context.Context, tx database.DBTX) error {
		return fn(ctx, &txStore{users: NewUserRepo(tx), methods: NewAuthMethodRepo(tx)})
	})
}

type txStore struct {
	users   *UserRepo
	methods *AuthMethodRepo
}

func (t *txStore) InsertUser(ctx context.Context, u *model.User) error {
	return t.users.Create(ctx, u)
}

func (t *txStore) InsertAuthMethod(ctx context.Context, m *model.AuthMethod) error {
	if m.UserID == 0 {
		return fmt.Errorf("insert authentication: missing user id")
	}
	return t.methods.Create(ctx, m)
}
