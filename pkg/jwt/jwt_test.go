package jwt

import (
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"attendance-leave/backend/config"
	"attendance-leave/backend/internal/model"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: 15 * time.Minute,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", model.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("期望 UserID=user-1，实际=%s", claims.UserID)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("期望 Role=admin，实际=%s", claims.Role)
	}
	if claims.Issuer != "attendance-leave" {
		t.Errorf("期望 Issuer=attendance-leave，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
}

func TestGenerateAccessToken_InvalidRole(t *testing.T) {
	m := newTestManager()

	if _, err := m.GenerateAccessToken("user-1", model.Role("root")); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望未知角色返回 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: -time.Minute,
	})

	token, err := m.GenerateAccessToken("user-1", model.RoleUser)
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}

	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := newTestManager().GenerateAccessToken("user-1", model.RoleUser)

	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-key-0123456789",
		AccessTokenTTL: 15 * time.Minute,
	})
	if _, err := other.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_NoneAlgorithm(t *testing.T) {
	claims := Claims{
		UserID: "user-1",
		Role:   model.RoleAdmin,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    "attendance-leave",
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, claims)
	s, err := token.SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("构造 none 签名 token 失败: %v", err)
	}

	if _, err := newTestManager().ParseToken(s); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 none 算法被拒绝，实际: %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := newTestManager().ParseToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}
