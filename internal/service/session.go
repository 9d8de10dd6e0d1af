// Package service implements the session manager: signup, password login,
// external-provider login, logout and access token refresh. It owns no
// state between calls; persistence goes through a repository.CredentialStore.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/session-auth/internal/logging"
	"github.com/iliyamo/session-auth/internal/model"
	"github.com/iliyamo/session-auth/internal/queue"
	"github.com/iliyamo/session-auth/internal/repository"
	"github.com/iliyamo/session-auth/internal/utils"
)

// MsgInvalidCredentials is the only message a client sees for a failed
// password login, whatever the underlying reason.
const MsgInvalidCredentials = "invalid credentials"

// EventPublisher receives an AuthEvent after each issued session.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.AuthEvent) error
}

type SessionConfig struct {
	AccessTTL     time.Duration
	SessionTTL    time.Duration
	SecureCookies bool
	BcryptCost    int
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// ExternalIdentity is a user as asserted by an external provider after a
// completed OAuth exchange.
type ExternalIdentity struct {
	Provider   model.Provider
	ProviderID string
	Email      string
	Name       string
	Photo      *string
}

// Session is the result of a successful authentication. Cookie is a
// complete Set-Cookie header value carrying SessionToken.
type Session struct {
	User         model.User
	AccessToken  utils.IssuedToken
	SessionToken utils.IssuedToken
	Cookie       string
}

type SessionManager struct {
	store  repository.CredentialStore
	codec  *utils.TokenCodec
	cfg    SessionConfig
	events EventPublisher
	log    logging.Logger
	now    func() time.Time
}

// NewSessionManager wires the manager. events may be nil, in which case
// nothing is published.
func NewSessionManager(store repository.CredentialStore, codec *utils.TokenCodec, cfg SessionConfig, events EventPublisher, log logging.Logger) *SessionManager {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = utils.DefaultBcryptCost
	}
	return &SessionManager{
		store:  store,
		codec:  codec,
		cfg:    cfg,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// Signup creates a user with a password method and opens a session for it.
func (m *SessionManager) Signup(ctx context.Context, in SignupInput) (Session, error) {
	if _, err := m.store.FindUserByEmail(ctx, in.Email); err == nil {
		return Session{}, conflict("email already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return Session{}, internal(err)
	}

	hash, err := utils.HashPassword(in.Password, m.cfg.BcryptCost)
	if err != nil {
		return Session{}, internal(err)
	}

	u := model.User{Email: in.Email, Name: in.Name}
	err = m.store.WithinTx(ctx, func(ctx context.Context, tx repository.CredentialTx) error {
		if err := tx.InsertUser(ctx, &u); err != nil {
			return err
		}
		return tx.InsertAuthMethod(ctx, &model.AuthMethod{
			UserID:       u.ID,
			Provider:     model.ProviderPassword,
			PasswordHash: &hash,
		})
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a race with a concurrent signup for the same email
		return Session{}, conflict("email already registered", err)
	}
	if err != nil {
		return Session{}, internal(err)
	}

	m.log.Info(ctx, "user signed up", "user_id", u.ID)
	return m.open(ctx, u, queue.EventSignedUp, model.ProviderPassword)
}

// Login authenticates with email and password.
func (m *SessionManager) Login(ctx context.Context, in LoginInput) (Session, error) {
	u, method, err := m.store.FindPasswordLogin(ctx, in.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		m.log.Warn(ctx, "login rejected: no such user")
		return Session{}, unauthorized(MsgInvalidCredentials, err)
	case err != nil:
		return Session{}, internal(err)
	case !method.HasPassword():
		m.log.Warn(ctx, "login rejected: account has no password", "user_id", u.ID)
		return Session{}, unauthorized(MsgInvalidCredentials, nil)
	case !utils.VerifyPassword(*method.PasswordHash, in.Password):
		m.log.Warn(ctx, "login rejected: wrong password", "user_id", u.ID)
		return Session{}, unauthorized(MsgInvalidCredentials, nil)
	}
	return m.open(ctx, u, queue.EventLoggedIn, model.ProviderPassword)
}

// ExternalLogin signs in a user asserted by an external provider. A first
// login creates the account, later logins sync name and photo. An email
// already held by an account without this identity is never linked
// silently.
func (m *SessionManager) ExternalLogin(ctx context.Context, id ExternalIdentity) (Session, error) {
	if !id.Provider.External() || id.ProviderID == "" {
		return Session{}, Validation("unsupported identity provider")
	}

	u, _, err := m.store.FindExternalLogin(ctx, id.Provider, id.ProviderID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		u, err = m.createExternal(ctx, id)
		if err != nil {
			return Session{}, err
		}
	case err != nil:
		return Session{}, internal(err)
	case !u.SameProfile(id.Name, id.Photo):
		u, err = m.store.UpdateUserProfile(ctx, u.ID, id.Name, id.Photo)
		if err != nil {
			return Session{}, internal(err)
		}
	}
	return m.open(ctx, u, queue.EventExternalLogin, id.Provider)
}

func (m *SessionManager) createExternal(ctx context.Context, id ExternalIdentity) (model.User, error) {
	if _, err := m.store.FindUserByEmail(ctx, id.Email); err == nil {
		return m.linkedMeanwhile(ctx, id, nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return model.User{}, internal(err)
	}

	u := model.User{Email: id.Email, Name: id.Name, Photo: id.Photo}
	pid := id.ProviderID
	err := m.store.WithinTx(ctx, func(ctx context.Context, tx repository.CredentialTx) error {
		if err := tx.InsertUser(ctx, &u); err != nil {
			return err
		}
		return tx.InsertAuthMethod(ctx, &model.AuthMethod{
			UserID:     u.ID,
			Provider:   id.Provider,
			ProviderID: &pid,
		})
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return m.linkedMeanwhile(ctx, id, err)
	}
	if err != nil {
		return model.User{}, internal(err)
	}
	m.log.Info(ctx, "user signed up", "user_id", u.ID, "provider", string(id.Provider))
	return u, nil
}

// linkedMeanwhile looks the identity up once more after its email turned
// out to be taken. A concurrent first login for the same identity yields
// that account; otherwise the email belongs to a different account.
func (m *SessionManager) linkedMeanwhile(ctx context.Context, id ExternalIdentity, cause error) (model.User, error) {
	u, _, err := m.store.FindExternalLogin(ctx, id.Provider, id.ProviderID)
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, repository.ErrNotFound):
		return model.User{}, conflict("email already registered with another sign-in method", cause)
	}
	return model.User{}, internal(err)
}

// Logout returns the Set-Cookie value that clears the session cookie.
// Issued tokens stay valid until they expire.
func (m *SessionManager) Logout() string {
	return utils.ClearSessionCookie(m.cfg.SecureCookies)
}

// Refresh exchanges a valid session token for a new access token. The
// session token itself is not rotated.
func (m *SessionManager) Refresh(ctx context.Context, sessionToken string) (utils.IssuedToken, error) {
	claims, err := m.codec.Verify(sessionToken)
	if errors.Is(err, utils.ErrTokenExpired) {
		return utils.IssuedToken{}, unauthorized("token expired", err)
	}
	if err != nil {
		return utils.IssuedToken{}, unauthorized("wrong authentication token", err)
	}
	if claims.Type != utils.TokenSession {
		return utils.IssuedToken{}, unauthorized("wrong authentication token", nil)
	}

	u, err := m.store.FindUserByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && u.Email != claims.Email) {
		return utils.IssuedToken{}, unauthorized("account not found", err)
	}
	if err != nil {
		return utils.IssuedToken{}, internal(err)
	}

	access, err := m.codec.Issue(claimsFor(u, utils.TokenAccess), m.cfg.AccessTTL)
	if err != nil {
		return utils.IssuedToken{}, internal(err)
	}
	return access, nil
}

// open issues both tokens for u and publishes the event.
func (m *SessionManager) open(ctx context.Context, u model.User, eventType string, provider model.Provider) (Session, error) {
	access, err := m.codec.Issue(claimsFor(u, utils.TokenAccess), m.cfg.AccessTTL)
	if err != nil {
		return Session{}, internal(err)
	}
	session, err := m.codec.Issue(claimsFor(u, utils.TokenSession), m.cfg.SessionTTL)
	if err != nil {
		return Session{}, internal(err)
	}

	m.publish(ctx, queue.AuthEvent{
		Type:       eventType,
		UserID:     u.ID,
		Email:      u.Email,
		Provider:   string(provider),
		OccurredAt: m.now().UTC().Format(time.RFC3339),
	})

	return Session{
		User:         u,
		AccessToken:  access,
		SessionToken: session,
		Cookie:       utils.SessionCookie(session.Token, m.cfg.SessionTTL, m.cfg.SecureCookies),
	}, nil
}

func (m *SessionManager) publish(ctx context.Context, ev queue.AuthEvent) {
	if m.events == nil {
		return
	}
	if err := m.events.Publish(ctx, ev); err != nil {
		m.log.Warn(ctx, "publish auth event failed", "type", ev.Type, "user_id", ev.UserID, "error", err)
	}
}

func claimsFor(u model.User, typ utils.TokenType) utils.Claims {
	return utils.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Photo:  u.Photo,
		Type:   typ,
	}
}
