package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialFeed/errs"
)

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()
	tokens, err := NewTokens(TokensConfig{
		Secret:     "test-secret",
		Issuer:     "social-feed",
		AccessTTL:  5 * time.Minute,
		RefreshTTL: time.Hour,
	})
	require.NoError(t, err)
	return tokens
}

func TestNewTokens_RequiresSecret(t *testing.T) {
	_, err := NewTokens(TokensConfig{})
	assert.Error(t, err)
}

func TestTokens_IssueAndVerify(t *testing.T) {
	tokens := newTestTokens(t)

	access, refresh, err := tokens.Issue(42)
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	userID, err := tokens.Verify(access)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestTokens_TypesAreNotInterchangeable(t *testing.T) {
	tokens := newTestTokens(t)
	access, refresh, err := tokens.Issue(1)
	require.NoError(t, err)

	_, err = tokens.Verify(refresh)
	assert.Equal(t, errs.InvalidToken, err)

	_, err = tokens.Refresh(access)
	assert.Equal(t, errs.InvalidToken, err)
}

func TestTokens_Refresh(t *testing.T) {
	tokens := newTestTokens(t)
	_, refresh, err := tokens.Issue(7)
	require.NoError(t, err)

	access, err := tokens.Refresh(refresh)
	require.NoError(t, err)

	userID, err := tokens.Verify(access)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
}

func TestTokens_Expiry(t *testing.T) {
	tokens := newTestTokens(t)
	issuedAt := time.Now()
	tokens.now = func() time.Time { return issuedAt }

	access, refresh, err := tokens.Issue(1)
	require.NoError(t, err)

	tokens.now = func() time.Time { return issuedAt.Add(10 * time.Minute) }
	_, err = tokens.Verify(access)
	assert.Equal(t, errs.InvalidToken, err)

	_, err = tokens.Refresh(refresh)
	assert.NoError(t, err)

	tokens.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = tokens.Refresh(refresh)
	assert.Equal(t, errs.InvalidToken, err)
}

func TestTokens_RejectsForeignTokens(t *testing.T) {
	tokens := newTestTokens(t)

	other, err := NewTokens(TokensConfig{Secret: "another-secret", Issuer: "social-feed"})
	require.NoError(t, err)
	foreign, _, err := other.Issue(1)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Type: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "social-feed",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong secret": foreign,
		"alg none":     unsigned,
		"garbage":      "not.a.token",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Verify(token)
			assert.Equal(t, errs.InvalidToken, err)
		})
	}
}
