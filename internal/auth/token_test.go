package auth_test

import (
	"testing"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhited/notekeeper/internal/auth"
	"github.com/mwhited/notekeeper/internal/domain"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestTokens(t *testing.T) *auth.Tokens {
	t.Helper()
	tokens, err := auth.NewTokens(testSecret, time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestNewTokens_RejectsShortSecret(t *testing.T) {
	_, err := auth.NewTokens([]byte("too-short"), time.Hour)
	require.Error(t, err)
}

func TestNewTokens_RejectsNonPositiveExpiry(t *testing.T) {
	_, err := auth.NewTokens(testSecret, 0)
	require.Error(t, err)
}

func TestTokens_IssueVerify_RoundTrip(t *testing.T) {
	tokens := newTestTokens(t)
	user := domain.User{ID: uuid.New(), Username: "frodo.baggins"}

	raw, err := tokens.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	id, err := tokens.Verify(raw)

	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, "frodo.baggins", id.Username)
}

func TestTokens_Verify_Malformed(t *testing.T) {
	tokens := newTestTokens(t)

	_, err := tokens.Verify("not-a-jwt")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokens_Verify_WrongSecret(t *testing.T) {
	other, err := auth.NewTokens([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)
	require.NoError(t, err)

	raw, err := other.Issue(domain.User{ID: uuid.New(), Username: "x"})
	require.NoError(t, err)

	_, err = newTestTokens(t).Verify(raw)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokens_Verify_Expired(t *testing.T) {
	// Issue never produces an already-expired token, so sign one by hand
	// with the same secret and an expiry well past the validation leeway.
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: testSecret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(t, err)

	claims := jwt.Claims{
		Subject:  uuid.New().String(),
		IssuedAt: jwt.NewNumericDate(time.Now().Add(-3 * time.Hour)),
		Expiry:   jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
	}
	raw, err := jwt.Signed(signer).Claims(claims).CompactSerialize()
	require.NoError(t, err)

	_, err = newTestTokens(t).Verify(raw)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokens_Verify_NonUUIDSubject(t *testing.T) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: testSecret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	require.NoError(t, err)

	claims := jwt.Claims{
		Subject: "not-a-uuid",
		Expiry:  jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	raw, err := jwt.Signed(signer).Claims(claims).CompactSerialize()
	require.NoError(t, err)

	_, err = newTestTokens(t).Verify(raw)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
