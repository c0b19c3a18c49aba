package auth

import (
	"testing"
	"time"

	"github.com/authorshaven/haven-api/internal/config"
)

func setupJWTConfig(t *testing.T) {
	t.Helper()
	config.GlobalConfig = &config.Config{
		JWT: config.JWTConfig{
			SecretKey:            "test-secret",
			AccessExpireSeconds:  3600,
			RefreshExpireSeconds: 86400,
			Issuer:               "haven-api-test",
		},
	}
}

func TestGenerateAndParseTokenPair(t *testing.T) {
	setupJWTConfig(t)

	pair, err := GenerateTokenPair(42, "user", false)
	if err != nil {
		t.Fatalf("failed to generate token pair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be populated")
	}
	if pair.TokenID == "" {
		t.Error("expected token id to be populated")
	}

	claims, err := ParseToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("failed to parse access token: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Type != AccessToken {
		t.Errorf("expected access token type, got %q", claims.Type)
	}

	refreshClaims, err := ParseToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("failed to parse refresh token: %v", err)
	}
	if refreshClaims.Type != RefreshToken {
		t.Errorf("expected refresh token type, got %q", refreshClaims.Type)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	setupJWTConfig(t)

	pair, err := GenerateTokenPair(1, "user", false)
	if err != nil {
		t.Fatalf("failed to generate token pair: %v", err)
	}

	config.GlobalConfig.JWT.SecretKey = "other-secret"
	if _, err := ParseToken(pair.AccessToken); err == nil {
		t.Error("expected parse failure with wrong secret")
	}
}

func TestRefreshRotatesAndRevokesOldToken(t *testing.T) {
	setupJWTConfig(t)

	pair, err := GenerateTokenPair(7, "user", false)
	if err != nil {
		t.Fatalf("failed to generate token pair: %v", err)
	}

	next, err := RefreshAccessToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("failed to refresh: %v", err)
	}
	if next.TokenID == pair.TokenID {
		t.Error("expected rotated token id")
	}

	// 旧刷新令牌应已进入黑名单
	if _, err := ParseToken(pair.RefreshToken); err == nil {
		t.Error("expected old refresh token to be revoked")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	setupJWTConfig(t)

	pair, err := GenerateTokenPair(7, "user", false)
	if err != nil {
		t.Fatalf("failed to generate token pair: %v", err)
	}

	if _, err := RefreshAccessToken(pair.AccessToken); err == nil {
		t.Error("expected refresh with access token to fail")
	}
}

func TestRevokeToken(t *testing.T) {
	setupJWTConfig(t)

	pair, err := GenerateTokenPair(9, "user", false)
	if err != nil {
		t.Fatalf("failed to generate token pair: %v", err)
	}

	if err := RevokeToken(pair.AccessToken); err != nil {
		t.Fatalf("failed to revoke: %v", err)
	}
	if _, err := ParseToken(pair.AccessToken); err == nil {
		t.Error("expected revoked token to be rejected")
	}
}

func TestMemoryBlacklistExpiry(t *testing.T) {
	b := NewMemoryBlacklist()
	b.AddToBlacklist("stale", time.Now().Add(-time.Minute))
	if b.IsBlacklisted("stale") {
		t.Error("expired entry should not be blacklisted")
	}

	b.AddToBlacklist("live", time.Now().Add(time.Hour))
	if !b.IsBlacklisted("live") {
		t.Error("live entry should be blacklisted")
	}
}
