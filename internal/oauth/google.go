// Package oauth talks to external identity providers and turns a completed
// authorization code exchange into a service.ExternalIdentity.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/iliyamo/session-auth/internal/config"
	"github.com/iliyamo/session-auth/internal/model"
	"github.com/iliyamo/session-auth/internal/service"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// ErrEmailNotVerified is returned when the provider cannot vouch for the
// account's email address.
var ErrEmailNotVerified = errors.New("provider email not verified")

// Google runs the authorization code flow (with PKCE) against Google.
type Google struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewGoogle(cfg config.GoogleConfig) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: googleUserInfoURL,
	}
}

// AuthCodeURL returns the consent page URL bound to state and to the PKCE
// verifier the caller keeps until the callback.
func (g *Google) AuthCodeURL(state, verifier string) string {
	return g.cfg.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Identify exchanges code for a token and reads the user's profile.
func (g *Google) Identify(ctx context.Context, code, verifier string) (service.ExternalIdentity, error) {
	tok, err := g.cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return service.ExternalIdentity{}, fmt.Errorf("google exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return service.ExternalIdentity{}, fmt.Errorf("google userinfo: %w", err)
	}
	resp, err := g.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return service.ExternalIdentity{}, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return service.ExternalIdentity{}, fmt.Errorf("google userinfo: status %d: %s", resp.StatusCode, body)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return service.ExternalIdentity{}, fmt.Errorf("google userinfo: decode: %w", err)
	}
	if info.Sub == "" || info.Email == "" {
		return service.ExternalIdentity{}, errors.New("google userinfo: missing sub or email")
	}
	if !info.EmailVerified {
		return service.ExternalIdentity{}, ErrEmailNotVerified
	}

	id := service.ExternalIdentity{
		Provider:   model.ProviderGoogle,
		ProviderID: info.Sub,
		Email:      info.Email,
		Name:       info.Name,
	}
	if id.Name == "" {
		id.Name = info.Email
	}
	if info.Picture != "" {
		pic := info.Picture
		id.Photo = &pic
	}
	return id, nil
}
