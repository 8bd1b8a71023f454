package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/postline/postline/backend/go-services/internal/tokens"
	"github.com/postline/postline/backend/go-services/internal/users"
)

// revocationSkew pads blocklist TTLs so an entry never expires before the
// token it rejects, even with modest clock drift between nodes.
const revocationSkew = time.Minute

// TokenPair is the credential pair returned by login, refresh and profile
// updates.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ProfilePatch is a partial user update; nil fields are left unchanged.
type ProfilePatch struct {
	Username *string
	Email    *string
}

// Service orchestrates the authentication/session lifecycle: issuing token
// pairs, request-time validation, one-shot refresh rotation and single- or
// all-device logout. It is the only entry point callers use; the signer,
// revocation store and refresh registry are composed behind it.
type Service struct {
	signer   *tokens.Signer
	revoked  *RevocationStore
	registry *RefreshTokenRegistry
	users    users.Repository
}

func NewService(signer *tokens.Signer, revoked *RevocationStore, registry *RefreshTokenRegistry, repo users.Repository) *Service {
	return &Service{signer: signer, revoked: revoked, registry: registry, users: repo}
}

// Login verifies the credentials and establishes a new device session:
// a refresh token whose jti is registered under the user, plus an access
// token embedding that jti. Unknown username and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*TokenPair, *users.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !users.VerifyPassword(password, u.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}
	pair, err := s.issueSession(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return pair, u, nil
}

// ValidateAccess is the gate every protected endpoint calls: signature and
// expiry via the signer, then the revocation blocklist. Returns the embedded
// claims on success.
func (s *Service) ValidateAccess(ctx context.Context, raw string) (*tokens.Claims, error) {
	claims, err := s.signer.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.TokenType != tokens.TypeAccess {
		return nil, ErrTokenInvalid
	}
	blocked, err := s.revoked.IsBlocked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Refresh rotates the session behind the presented access token. The access
// token must pass signature/expiry and the revocation check; the embedded
// refresh jti is consumed from the registry (one-shot), then a fresh pair is
// issued and registered. Reusing an already-rotated refresh jti fails with
// ErrSessionNotFound; a failure after consumption but before re-registration
// surfaces ErrRefreshRotationFailed and requires a new login.
func (s *Service) Refresh(ctx context.Context, raw string) (*TokenPair, error) {
	claims, err := s.ValidateAccess(ctx, raw)
	if err != nil {
		return nil, err
	}
	if claims.RefreshJTI == "" {
		return nil, ErrTokenInvalid
	}

	removed, err := s.registry.Remove(ctx, claims.Subject, claims.RefreshJTI)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrSessionNotFound
	}

	u, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRefreshRotationFailed, err)
	}
	pair, err := s.issueSession(ctx, u)
	if err != nil {
		// the old jti is already consumed; the client holds no valid session
		return nil, fmt.Errorf("%w: %v", ErrRefreshRotationFailed, err)
	}
	return pair, nil
}

// Logout terminates the acting device's session: the access jti is blocked
// for its remaining lifetime and the correlated refresh jti is removed.
// Calling it twice is safe — the second block overwrites, the second remove
// is a no-op.
func (s *Service) Logout(ctx context.Context, raw string) error {
	claims, err := s.accessClaims(raw)
	if err != nil {
		return err
	}
	if err := s.blockAccess(ctx, claims); err != nil {
		return err
	}
	if claims.RefreshJTI != "" {
		if _, err := s.registry.Remove(ctx, claims.Subject, claims.RefreshJTI); err != nil {
			return err
		}
	}
	return nil
}

// LogoutAll terminates every device's session for the token's subject:
// the acting access jti is blocked and the whole refresh registry entry is
// cleared.
func (s *Service) LogoutAll(ctx context.Context, raw string) error {
	claims, err := s.accessClaims(raw)
	if err != nil {
		return err
	}
	if err := s.blockAccess(ctx, claims); err != nil {
		return err
	}
	return s.registry.Clear(ctx, claims.Subject)
}

// CurrentUser validates the access token and loads the subject's record.
func (s *Service) CurrentUser(ctx context.Context, raw string) (*users.User, error) {
	claims, err := s.ValidateAccess(ctx, raw)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile applies a partial username/email update, then rotates the
// acting device's session so the client leaves with tokens reflecting the
// new claims: the old access jti is blocked, the old refresh jti consumed,
// and a fresh pair issued and registered. Other devices' refresh sessions
// are deliberately left untouched — only the acting device's claims are
// stale.
func (s *Service) UpdateProfile(ctx context.Context, raw string, patch ProfilePatch) (*users.User, *TokenPair, error) {
	claims, err := s.ValidateAccess(ctx, raw)
	if err != nil {
		return nil, nil, err
	}
	u, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	saved, err := s.users.Save(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	if err := s.blockAccess(ctx, claims); err != nil {
		return nil, nil, err
	}
	if claims.RefreshJTI != "" {
		if _, err := s.registry.Remove(ctx, claims.Subject, claims.RefreshJTI); err != nil {
			return nil, nil, err
		}
	}
	pair, err := s.issueSession(ctx, saved)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrRefreshRotationFailed, err)
	}
	return saved, pair, nil
}

// accessClaims verifies signature/expiry and type only. Logout paths use it
// instead of ValidateAccess so a second logout with an already-blocked token
// stays idempotent rather than failing as revoked.
func (s *Service) accessClaims(raw string) (*tokens.Claims, error) {
	claims, err := s.signer.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.TokenType != tokens.TypeAccess {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *Service) blockAccess(ctx context.Context, claims *tokens.Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time) + revocationSkew
	return s.revoked.Block(ctx, claims.ID, ttl)
}

// issueSession mints a refresh token, registers its jti under the user, and
// mints the correlated access token.
func (s *Service) issueSession(ctx context.Context, u *users.User) (*TokenPair, error) {
	refresh, err := s.signer.IssueRefresh(u.ID)
	if err != nil {
		return nil, err
	}
	rc, err := s.signer.Verify(refresh)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Add(ctx, u.ID, rc.ID); err != nil {
		return nil, err
	}
	access, err := s.signer.IssueAccess(u, rc.ID, 0)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
