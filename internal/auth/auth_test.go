package auth

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenService_RoundTrip(t *testing.T) {
	s := NewTokenService("test-secret-at-least-32-characters!!", time.Hour)

	token, err := s.Issue("user-1")
	require.NoError(t, err)

	userID, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenService_Expired(t *testing.T) {
	s := NewTokenService("test-secret-at-least-32-characters!!", time.Minute)
	issued := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return issued }

	token, err := s.Issue("user-1")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_Rejects(t *testing.T) {
	s := NewTokenService("test-secret-at-least-32-characters!!", time.Hour)
	other := NewTokenService("a-different-secret-of-32-characters!", time.Hour)

	foreign, err := other.Issue("user-1")
	require.NoError(t, err)

	noneAlg, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    Issuer,
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(s.secret)
	require.NoError(t, err)

	wrongIssuer, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "someone-else",
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(s.secret)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":        "not-a-token",
		"empty":          "",
		"foreign secret": foreign,
		"none algorithm": noneAlg,
		"no subject":     noSubject,
		"wrong issuer":   wrongIssuer,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestTokenService_IssueRequiresSubject(t *testing.T) {
	s := NewTokenService("secret", time.Hour)
	_, err := s.Issue("")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("123456", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "123456", hash)
	assert.True(t, CheckPassword(hash, "123456"))
	assert.False(t, CheckPassword(hash, "654321"))

	again, err := HashPassword("123456", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes are salted")
}

func TestGravatarURL(t *testing.T) {
	// md5("myemailaddress@example.com")
	want := "https://www.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346?s=200&r=pg&d=mm"
	assert.Equal(t, want, GravatarURL("  MyEmailAddress@example.com "))
}
