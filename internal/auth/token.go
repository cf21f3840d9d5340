// Package auth holds the stateless credential helpers: signed tokens,
// password hashing and avatar derivation.
package auth

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is stamped into every token.
const Issuer = "devconnector-api"

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the token payload. Subject carries the user id.
type Claims struct {
	jwtlib.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens with a fixed lifetime.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration

	now func() time.Time
}

// NewTokenService returns a TokenService signing with secret.
func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	return &TokenService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

// Issue signs a token for userID.
func (s *TokenService) Issue(userID string) (string, error) {
	if len(s.secret) == 0 || s.expiresIn <= 0 || userID == "" {
		return "", ErrTokenInvalid
	}

	now := s.now().UTC()
	c := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			Issuer:    Issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			NotBefore: jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.expiresIn)),
			ID:        uuid.NewString(),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(s.secret)
}

// Verify checks signature, algorithm, issuer and expiry and returns the user id.
func (s *TokenService) Verify(tokenString string) (string, error) {
	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(Issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(*jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if tok == nil || !tok.Valid || c.Subject == "" {
		return "", ErrTokenInvalid
	}
	return c.Subject, nil
}
