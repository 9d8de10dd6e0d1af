package model

import "time"

// Provider tags the way a user proved their identity. The values match the
// `provider` enum column of the `authentications` table.
type Provider string

const (
	ProviderPassword Provider = "password"
	ProviderGoogle   Provider = "google"
)

// Valid reports whether p is one of the providers known to the schema.
func (p Provider) Valid() bool {
	switch p {
	case ProviderPassword, ProviderGoogle:
		return true
	}
	return false
}

// External reports whether p is an external identity provider.
func (p Provider) External() bool { return p.Valid() && p != ProviderPassword }

// User represents a row in the `users` table. Email is unique and compared
// exactly as stored. Photo is nil when the user never supplied one.
//
// Fields:
//
//	ID        – primary key identifier of the user.
//	Email     – unique email address.
//	Name      – display name.
//	Photo     – optional avatar URL, synced from external providers.
//	CreatedAt – timestamp of creation.
//	UpdatedAt – timestamp of last update.
type User struct {
	ID        uint64
	Email     string
	Name      string
	Photo     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthMethod models an entry in the `authentications` table. There is at
// most one row per (user, provider) pair. PasswordHash is only set for the
// password provider and ProviderID only for external providers; the pair
// (Provider, ProviderID) is unique so two local users can never claim the
// same external identity.
type AuthMethod struct {
	ID           uint64
	UserID       uint64
	Provider     Provider
	PasswordHash *string
	ProviderID   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the method carries password material.
func (m AuthMethod) HasPassword() bool {
	return m.Provider == ProviderPassword && m.PasswordHash != nil && *m.PasswordHash != ""
}

// SameProfile reports whether name and photo already match what is stored on u.
func (u User) SameProfile(name string, photo *string) bool {
	if u.Name != name {
		return false
	}
	switch {
	case u.Photo == nil && photo == nil:
		return true
	case u.Photo == nil || photo == nil:
		return false
	}
	return *u.Photo == *photo
}
