package tokens

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/postline/postline/backend/go-services/internal/config"
	"github.com/postline/postline/backend/go-services/internal/users"
)

func testSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(config.JWTConfig{
		Secret:          "test-secret-32-bytes-should-be-long",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewSigner error: %v", err)
	}
	return s
}

func testUser() *users.User {
	return &users.User{ID: "user-123", Username: "alice", Email: "alice@example.com"}
}

func TestNewSigner_EmptySecret(t *testing.T) {
	if _, err := NewSigner(config.JWTConfig{}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestIssueAccess_RoundTrip(t *testing.T) {
	s := testSigner(t)

	tok, err := s.IssueAccess(testUser(), "refresh-jti-1", 0)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	claims, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != "user-123" || claims.Username != "alice" || claims.Email != "alice@example.com" {
		t.Fatalf("claims did not round-trip: %+v", claims)
	}
	if claims.TokenType != TypeAccess {
		t.Fatalf("unexpected type: %q", claims.TokenType)
	}
	if claims.RefreshJTI != "refresh-jti-1" {
		t.Fatalf("unexpected refresh_jti: %q", claims.RefreshJTI)
	}
	if claims.ID == "" {
		t.Fatalf("expected a fresh jti")
	}
	if !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		t.Fatalf("exp must be after iat")
	}
}

func TestIssueAccess_UniqueJTI(t *testing.T) {
	s := testSigner(t)
	u := testUser()

	t1, err := s.IssueAccess(u, "r", 0)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	t2, err := s.IssueAccess(u, "r", 0)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	c1, _ := s.Verify(t1)
	c2, _ := s.Verify(t2)
	if c1.ID == c2.ID {
		t.Fatalf("jti must be unique per issuance")
	}
}

func TestIssueRefresh_Claims(t *testing.T) {
	s := testSigner(t)

	tok, err := s.IssueRefresh("user-456")
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	claims, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.TokenType != TypeRefresh {
		t.Fatalf("unexpected type: %q", claims.TokenType)
	}
	if claims.Subject != "user-456" {
		t.Fatalf("unexpected subject: %q", claims.Subject)
	}
	wantExp := time.Now().Add(30 * 24 * time.Hour)
	if d := claims.ExpiresAt.Sub(wantExp); d < -time.Minute || d > time.Minute {
		t.Fatalf("refresh expiry not ~30 days out: %v", claims.ExpiresAt)
	}
}

func TestVerify_Expired(t *testing.T) {
	s := testSigner(t)

	tok := expiredToken(t, s)
	if _, err := s.Verify(tok); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func expiredToken(t *testing.T, s *Signer) string {
	t.Helper()
	now := time.Now().UTC().Add(-time.Hour)
	claims := Claims{
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u",
			ID:        "expired-jti",
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	return raw
}

func TestVerify_WrongSecret(t *testing.T) {
	s := testSigner(t)
	other, err := NewSigner(config.JWTConfig{Secret: "different-secret-xxxxxxxxxxxxxxxxxx"})
	if err != nil {
		t.Fatalf("NewSigner error: %v", err)
	}

	tok, err := s.IssueAccess(testUser(), "r", 0)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if _, err := other.Verify(tok); err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	s := testSigner(t)
	if _, err := s.Verify("not.a.jwt"); err != ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

// Unsigned (alg=none) tokens must be rejected.
func TestVerify_AlgNoneRejected(t *testing.T) {
	s := testSigner(t)
	headerEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	payloadEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u-none","exp":9999999999}`))
	tok := headerEnc + "." + payloadEnc + "."
	if _, err := s.Verify(tok); err == nil {
		t.Fatalf("expected alg=none token to be rejected")
	}
}

// Tampering with the payload must fail signature verification.
func TestVerify_TamperedPayload(t *testing.T) {
	s := testSigner(t)
	tok, err := s.IssueAccess(testUser(), "r", 0)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(strings.Replace(string(payload), "alice", "mallory", 1)))
	if _, err := s.Verify(strings.Join(parts, ".")); err == nil {
		t.Fatalf("expected tampered token to fail verification")
	}
}
