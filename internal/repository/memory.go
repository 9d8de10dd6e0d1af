package repository

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/iliyamo/session-auth/internal/model"
)

var _ CredentialStore = (*MemoryStore)(nil)

// MemoryStore is a CredentialStore kept in process memory. It enforces the
// same unique constraints as the MySQL schema and is meant for local
// development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	state   memState
	nowFunc func() time.Time
}

type memState struct {
	nextUserID   uint64
	nextMethodID uint64
	users        map[uint64]model.User
	methods      map[uint64]model.AuthMethod
}

func (st memState) clone() memState {
	return memState{
		nextUserID:   st.nextUserID,
		nextMethodID: st.nextMethodID,
		users:        maps.Clone(st.users),
		methods:      maps.Clone(st.methods),
	}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: memState{
			users:   map[uint64]model.User{},
			methods: map[uint64]model.AuthMethod{},
		},
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.userByEmail(email)
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id uint64) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.state.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) FindPasswordLogin(ctx context.Context, email string) (model.User, model.AuthMethod, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, model.AuthMethod{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.state.userByEmail(email)
	if err != nil {
		return model.User{}, model.AuthMethod{}, err
	}
	for _, m := range s.state.methods {
		if m.UserID == u.ID && m.Provider == model.ProviderPassword {
			return u, m, nil
		}
	}
	return u, model.AuthMethod{}, nil
}

func (s *MemoryStore) FindExternalLogin(ctx context.Context, provider model.Provider, providerID string) (model.User, model.AuthMethod, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, model.AuthMethod{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.state.methods {
		if m.Provider == provider && m.ProviderID != nil && *m.ProviderID == providerID {
			return s.state.users[m.UserID], m, nil
		}
	}
	return model.User{}, model.AuthMethod{}, ErrNotFound
}

func (s *MemoryStore) UpdateUserProfile(ctx context.Context, id uint64, name string, photo *string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.state.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	u.Name = name
	u.Photo = photo
	u.UpdatedAt = s.nowFunc()
	s.state.users[id] = u
	return u, nil
}

// WithinTx applies fn to a private copy of the state and publishes the
// copy only when fn succeeds. Transactions are serialized.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx CredentialTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := &memTx{state: s.state.clone(), now: s.nowFunc}
	if err := fn(ctx, staged); err != nil {
		return err
	}
	s.state = staged.state
	return nil
}

// DeleteUser removes a user and, like the ON DELETE CASCADE foreign key,
// every method linked to it.
func (s *MemoryStore) DeleteUser(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state.users, id)
	for mid, m := range s.state.methods {
		if m.UserID == id {
			delete(s.state.methods, mid)
		}
	}
}

func (st memState) userByEmail(email string) (model.User, error) {
	for _, u := range st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

type memTx struct {
	state memState
	now   func() time.Time
}

func (t *memTx) InsertUser(_ context.Context, u *model.User) error {
	if _, err := t.state.userByEmail(u.Email); err == nil {
		return ErrDuplicate
	}
	t.state.nextUserID++
	now := t.now()
	u.ID = t.state.nextUserID
	u.CreatedAt, u.UpdatedAt = now, now
	t.state.users[u.ID] = *u
	return nil
}

func (t *memTx) InsertAuthMethod(_ context.Context, m *model.AuthMethod) error {
	if _, ok := t.state.users[m.UserID]; !ok {
		return ErrNotFound
	}
	for _, existing := range t.state.methods {
		if existing.UserID == m.UserID && existing.Provider == m.Provider {
			return ErrDuplicate
		}
		if m.ProviderID != nil && existing.Provider == m.Provider &&
			existing.ProviderID != nil && *existing.ProviderID == *m.ProviderID {
			return ErrDuplicate
		}
	}
	t.state.nextMethodID++
	now := t.now()
	m.ID = t.state.nextMethodID
	m.CreatedAt, m.UpdatedAt = now, now
	t.state.methods[m.ID] = *m
	return nil
}
