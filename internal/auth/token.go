package auth

import (
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/google/uuid"

	"github.com/mwhited/notekeeper/internal/domain"
)

// Tokens signs and verifies the API's bearer tokens: compact JWTs signed
// with HMAC-SHA256 over a shared secret. The subject claim carries the user
// id; the username rides along so the identity is complete without a
// database read.
type Tokens struct {
	secret []byte
	expiry time.Duration
}

// tokenClaims is the JWT payload: the registered claims plus the username.
type tokenClaims struct {
	jwt.Claims
	Username string `json:"username"`
}

// NewTokens constructs a token signer/verifier. The secret must be at least
// 32 bytes; expiry is how long issued tokens stay valid.
func NewTokens(secret []byte, expiry time.Duration) (*Tokens, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("auth.NewTokens: secret must be at least 32 bytes")
	}
	if expiry <= 0 {
		return nil, fmt.Errorf("auth.NewTokens: expiry must be positive")
	}
	return &Tokens{secret: secret, expiry: expiry}, nil
}

// Issue signs a fresh token for the given user.
func (t *Tokens) Issue(user domain.User) (string, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: t.secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("auth.Tokens.Issue: create signer: %w", err)
	}

	now := time.Now()
	claims := tokenClaims{
		Claims: jwt.Claims{
			Subject:  user.ID.String(),
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(t.expiry)),
		},
		Username: user.Username,
	}

	token, err := jwt.Signed(signer).Claims(claims).CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("auth.Tokens.Issue: sign: %w", err)
	}
	return token, nil
}

// Verify checks the signature and expiry of a token and returns the
// identity it asserts. Every failure mode — malformed token, bad signature,
// expired, unparseable subject — collapses to domain.ErrUnauthorized.
func (t *Tokens) Verify(token string) (Identity, error) {
	parsed, err := jwt.ParseSigned(token)
	if err != nil {
		return Identity{}, domain.ErrUnauthorized
	}

	var claims tokenClaims
	if err := parsed.Claims(t.secret, &claims); err != nil {
		return Identity{}, domain.ErrUnauthorized
	}
	if err := claims.Validate(jwt.Expected{Time: time.Now()}); err != nil {
		return Identity{}, domain.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, domain.ErrUnauthorized
	}
	return Identity{UserID: userID, Username: claims.Username}, nil
}
