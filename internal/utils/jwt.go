package utils // package utils provides helpers for password hashing, session tokens and cookies

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid is returned for malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned for well-formed, correctly signed tokens
	// whose expiry has passed.
	ErrTokenExpired = errors.New("token expired")
)

// TokenType distinguishes the two token classes. Both carry the same
// claims; they differ in lifetime and in how they travel.
type TokenType string

const (
	// TokenAccess is short-lived and sent as a Bearer header.
	TokenAccess TokenType = "access"
	// TokenSession is long-lived and bound to the Authorization cookie.
	TokenSession TokenType = "session"
)

// Claims is the minimal identity embedded in a token: enough to
// re-identify and re-display the user, never credential material.
type Claims struct {
	UserID    uint64
	Email     string
	Name      string
	Photo     *string
	Type      TokenType
	ExpiresAt time.Time
}

// wireClaims is the JSON body of the JWT. The user id travels as "sub".
type wireClaims struct {
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Photo *string   `json:"photo"`
	Type  TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed token string along with its absolute expiry.
type IssuedToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenCodec signs and verifies HS256 session tokens with a process-wide
// secret. It is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), now: time.Now}
}

// WithClock returns a copy of the codec that reads time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	return &TokenCodec{secret: c.secret, now: now}
}

// Issue signs claims with an expiry ttl from now. Claims.ExpiresAt is
// ignored on input.
func (c *TokenCodec) Issue(claims Claims, ttl time.Duration) (IssuedToken, error) {
	now := c.now().UTC()
	exp := now.Add(ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, wireClaims{
		Email: claims.Email,
		Name:  claims.Name,
		Photo: claims.Photo,
		Type:  claims.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(claims.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Token: signed, Exp: exp}, nil
}

// Verify checks the signature first and the expiry second, returning
// ErrTokenInvalid or ErrTokenExpired respectively.
func (c *TokenCodec) Verify(raw string) (Claims, error) {
	var wc wireClaims
	_, err := jwt.ParseWithClaims(raw, &wc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	id, err := strconv.ParseUint(wc.Subject, 10, 64)
	if err != nil || id == 0 {
		return Claims{}, ErrTokenInvalid
	}
	return Claims{
		UserID:    id,
		Email:     wc.Email,
		Name:      wc.Name,
		Photo:     wc.Photo,
		Type:      wc.Type,
		ExpiresAt: wc.ExpiresAt.Time.UTC(),
	}, nil
}
