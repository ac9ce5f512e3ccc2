package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/webreviewer/webreviewer/internal/model"
)

// Token kinds embedded in claims so an access token can never be replayed
// as a refresh token or vice versa.
const (
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

var (
	// ErrInvalidToken indicates a token that failed signature, expiry, or
	// claim checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenKind indicates a structurally valid token of the wrong
	// kind (e.g. an access token presented for refresh).
	ErrWrongTokenKind = errors.New("wrong token kind")
)

// Claims are the JWT claims carried by both token kinds.
type Claims struct {
	Role string `json:"role"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 access and refresh tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer creates a TokenIssuer with the given signing secret and
// token lifetimes.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuedToken is a signed token together with its identifier and expiry.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// RefreshTTL returns the configured refresh token lifetime.
func (t *TokenIssuer) RefreshTTL() time.Duration {
	return t.refreshTTL
}

// IssueAccess mints an access token for the user.
func (t *TokenIssuer) IssueAccess(userID string, role model.Role) (*IssuedToken, error) {
	return t.issue(userID, role, tokenKindAccess, t.accessTTL)
}

// IssueRefresh mints a refresh token for the user. The caller is expected to
// register the token ID in the session store; verification alone does not
// make a refresh token usable.
func (t *TokenIssuer) IssueRefresh(userID string, role model.Role) (*IssuedToken, error) {
	return t.issue(userID, role, tokenKindRefresh, t.refreshTTL)
}

func (t *TokenIssuer) issue(userID string, role model.Role, kind string, ttl time.Duration) (*IssuedToken, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		Role: string(role),
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{Token: signed, ID: claims.ID, ExpiresAt: expiresAt}, nil
}

// VerifyAccess validates an access token and returns its claims.
func (t *TokenIssuer) VerifyAccess(token string) (*Claims, error) {
	return t.verify(token, tokenKindAccess)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (t *TokenIssuer) VerifyRefresh(token string) (*Claims, error) {
	return t.verify(token, tokenKindRefresh)
}

func (t *TokenIssuer) verify(token, kind string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenKind
	}

	return claims, nil
}
