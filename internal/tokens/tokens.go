package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/postline/postline/backend/go-services/internal/config"
	"github.com/postline/postline/backend/go-services/internal/users"
)

const (
	// TypeAccess marks short-lived request credentials.
	TypeAccess = "access"
	// TypeRefresh marks long-lived rotation credentials.
	TypeRefresh = "refresh"
)

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
)

// Claims is the claim set carried by both token types. Access tokens carry the
// user identity fields plus the jti of their companion refresh token; refresh
// tokens carry only the subject.
type Claims struct {
	Username   string `json:"username,omitempty"`
	Email      string `json:"email,omitempty"`
	TokenType  string `json:"type"`
	RefreshJTI string `json:"refresh_jti,omitempty"`
	jwt.RegisteredClaims
}

// Signer mints and verifies signed tokens. Verification is pure: revocation
// and registry checks are layered on top by the session service.
type Signer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewSigner builds a Signer from the JWT configuration. An empty secret is a
// configuration error and should abort startup.
func NewSigner(cfg config.JWTConfig) (*Signer, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("tokens: signing secret is empty")
	}
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &Signer{secret: []byte(cfg.Secret), accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// IssueAccess creates a signed access token for the user, correlated with the
// given refresh jti. A non-positive ttl uses the configured default.
func (s *Signer) IssueAccess(u *users.User, refreshJTI string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.accessTTL
	}
	now := time.Now().UTC()
	claims := Claims{
		Username:   u.Username,
		Email:      u.Email,
		TokenType:  TypeAccess,
		RefreshJTI: refreshJTI,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// IssueRefresh creates a signed refresh token for the user id with the fixed
// long-lived TTL.
func (s *Signer) IssueRefresh(userID string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		TokenType: TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, expiry and not-before, and returns the claims.
// It does not consult the revocation store or the refresh registry.
func (s *Signer) Verify(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	return &claims, nil
}
