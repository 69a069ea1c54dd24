package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"portal/internal/entity"
)

func TestNewManagerAndTokenLifecycle(t *testing.T) {
	mgr, err := NewManager("test-secret", "issuer", time.Minute*30)
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}

	user := &entity.DbUser{ID: 42, Email: "user@example.com", Role: entity.RoleTeacher}
	token, expiresAt, err := mgr.IssueToken(user)
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatal("expected future expiry time")
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error parsing token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %d, got %d", user.ID, claims.UserID)
	}
	if claims.Role != user.Role {
		t.Fatalf("expected role %s, got %s", user.Role, claims.Role)
	}
	if claims.Subject != "42" {
		t.Fatalf("expected subject 42, got %s", claims.Subject)
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("   ", "", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuerMgr, _ := NewManager("secret-a", "", time.Hour)
	verifierMgr, _ := NewManager("secret-b", "", time.Hour)

	token, _, err := issuerMgr.IssueToken(&entity.DbUser{ID: 7, Role: entity.RoleStudent})
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}

	_, err = verifierMgr.ParseToken(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	mgr, _ := NewManager("test-secret", "", time.Hour)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := mgr.ParseToken(raw); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}

func TestParseTokenExpired(t *testing.T) {
	const secret = "test-secret"
	mgr, _ := NewManager(secret, "portal", time.Hour)

	now := time.Now().UTC()
	claims := Claims{
		UserID: 9,
		Role:   entity.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "9",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("unexpected error signing token: %v", err)
	}

	_, err = mgr.ParseToken(signed)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if errors.Is(err, ErrInvalidToken) {
		t.Fatal("expired token must not also report as invalid")
	}
}

func TestParseTokenExpiryBoundary(t *testing.T) {
	const secret = "test-secret"
	mgr, _ := NewManager(secret, "portal", time.Hour)

	// 冻结时钟，在 exp 正好等于校验时刻的边界上验证行为是确定的：
	// 没有配置 leeway，now >= exp 即过期。
	frozen := time.Now().UTC().Truncate(time.Second)
	clock := func() time.Time { return frozen }

	sign := func(exp time.Time) string {
		claims := Claims{
			UserID: 9,
			Role:   entity.RoleStudent,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "9",
				IssuedAt:  jwt.NewNumericDate(frozen.Add(-time.Hour)),
				ExpiresAt: jwt.NewNumericDate(exp),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("unexpected error signing token: %v", err)
		}
		return signed
	}

	// exp 在校验时刻之后一秒：仍然有效
	if _, err := mgr.parseTokenAt(sign(frozen.Add(time.Second)), clock); err != nil {
		t.Fatalf("token expiring after the verification instant must verify, got %v", err)
	}

	// exp 正好等于校验时刻：已过期
	_, err := mgr.parseTokenAt(sign(frozen), clock)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("token with exp equal to the verification instant must report ErrTokenExpired, got %v", err)
	}
	if errors.Is(err, ErrInvalidToken) {
		t.Fatal("boundary expiry must not also report as invalid")
	}
}

func TestParseTokenRejectsUnexpectedMethod(t *testing.T) {
	const secret = "test-secret"
	mgr, _ := NewManager(secret, "portal", time.Hour)

	// alg=none style tokens must never verify
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("unexpected error building token: %v", err)
	}
	if _, err := mgr.ParseToken(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
