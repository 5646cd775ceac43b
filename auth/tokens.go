package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"socialFeed/errs"
)

// Token types, stored in the "typ" claim so that a refresh token
// can never be used as an access token and vice versa.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// TokensConfig configures a Tokens issuer.
type TokensConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims are the claims of both token types. The subject holds the user ID.
type Claims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// Tokens mints and verifies HS256 signed access and refresh tokens.
type Tokens struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokens returns a Tokens issuer. The secret must not be empty.
func NewTokens(cfg TokensConfig) (*Tokens, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: token secret is required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 5 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 24 * time.Hour
	}
	return &Tokens{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}, nil
}

// Issue returns a fresh access and refresh token pair bound to userID.
func (t *Tokens) Issue(userID int) (access, refresh string, err error) {
	if access, err = t.sign(userID, TypeAccess, t.accessTTL); err != nil {
		return "", "", err
	}
	if refresh, err = t.sign(userID, TypeRefresh, t.refreshTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Refresh verifies a refresh token and returns a new access token for its subject.
func (t *Tokens) Refresh(refresh string) (string, error) {
	userID, err := t.verify(refresh, TypeRefresh)
	if err != nil {
		return "", err
	}
	return t.sign(userID, TypeAccess, t.accessTTL)
}

// Verify checks an access token and returns the user ID it is bound to.
func (t *Tokens) Verify(access string) (int, error) {
	return t.verify(access, TypeAccess)
}

func (t *Tokens) sign(userID int, typ string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// verify parses a token of the given type. Every failure, whatever its cause,
// is reported as errs.InvalidToken.
func (t *Tokens) verify(token, typ string) (int, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, opts...)
	if err != nil || claims.Type != typ {
		return 0, errs.InvalidToken
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return 0, errs.InvalidToken
	}
	return userID, nil
}
