package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/session-auth/internal/model"
)

func seedPasswordUser(t *testing.T, s *MemoryStore, email string) model.User {
	t.Helper()
	var u model.User
	err := s.WithinTx(context.Background(), func(ctx context.Context, tx CredentialTx) error {
		u = model.User{Email: email, Name: "User"}
		if err := tx.InsertUser(ctx, &u); err != nil {
			return err
		}
		return tx.InsertAuthMethod(ctx, &model.AuthMethod{UserID: u.ID, Provider: model.ProviderPassword, PasswordHash: strPtr("hash")})
	})
	require.NoError(t, err)
	return u
}

func TestMemoryStore_PasswordLogin(t *testing.T) {
	s := NewMemoryStore()
	u := seedPasswordUser(t, s, "a@test.com")
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, m, err := s.FindPasswordLogin(context.Background(), "a@test.com")
	require.NoError(t, err)
	assert.Equal(t, u, got)
	assert.True(t, m.HasPassword())

	_, _, err = s.FindPasswordLogin(context.Background(), "A@test.com")
	assert.ErrorIs(t, err, ErrNotFound, "emails are compared exactly")
}

func TestMemoryStore_DuplicateEmailRollsBack(t *testing.T) {
	s := NewMemoryStore()
	seedPasswordUser(t, s, "a@test.com")

	err := s.WithinTx(context.Background(), func(ctx context.Context, tx CredentialTx) error {
		return tx.InsertUser(ctx, &model.User{Email: "a@test.com", Name: "Again"})
	})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryStore_FailedTxLeavesNoUser(t *testing.T) {
	s := NewMemoryStore()
	boom := errors.New("boom")

	err := s.WithinTx(context.Background(), func(ctx context.Context, tx CredentialTx) error {
		if err := tx.InsertUser(ctx, &model.User{Email: "b@test.com", Name: "B"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.FindUserByEmail(context.Background(), "b@test.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ExternalIdentityUnique(t *testing.T) {
	s := NewMemoryStore()
	a := seedPasswordUser(t, s, "a@test.com")
	b := seedPasswordUser(t, s, "b@test.com")
	ctx := context.Background()

	link := func(userID uint64) error {
		return s.WithinTx(ctx, func(ctx context.Context, tx CredentialTx) error {
			return tx.InsertAuthMethod(ctx, &model.AuthMethod{UserID: userID, Provider: model.ProviderGoogle, ProviderID: strPtr("g-1")})
		})
	}
	require.NoError(t, link(a.ID))
	assert.ErrorIs(t, link(b.ID), ErrDuplicate)
	assert.ErrorIs(t, link(a.ID), ErrDuplicate)

	u, m, err := s.FindExternalLogin(ctx, model.ProviderGoogle, "g-1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, u.ID)
	assert.Equal(t, a.ID, m.UserID)
}

func TestMemoryStore_UpdateProfileAndDelete(t *testing.T) {
	s := NewMemoryStore()
	u := seedPasswordUser(t, s, "a@test.com")
	ctx := context.Background()

	got, err := s.UpdateUserProfile(ctx, u.ID, "Renamed", strPtr("https://img/p.png"))
	require.NoError(t, err)
	assert.True(t, got.SameProfile("Renamed", strPtr("https://img/p.png")))

	s.DeleteUser(u.ID)
	_, err = s.FindUserByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.UpdateUserProfile(ctx, u.ID, "x", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_HonorsCancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FindUserByID(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
