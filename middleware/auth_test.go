package middleware

import (
	"testing"
	"time"

	"schooladmin/config"
	"schooladmin/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret-key-for-signing",
		AccessExpiresIn:  time.Hour,
		RefreshExpiresIn: 7 * 24 * time.Hour,
	}
}

func TestTokenPairRoundtrip(t *testing.T) {
	config.AppConfig = testConfig()

	user := &models.User{Username: "alice", Role: models.RoleTeacher}
	user.ID = 42

	pair, err := GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" || pair.Access == pair.Refresh {
		t.Fatalf("bad token pair: %+v", pair)
	}

	claims, err := ParseToken(pair.Access)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || claims.Role != models.RoleTeacher {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.TokenType != "access" {
		t.Fatalf("token type: %s", claims.TokenType)
	}

	refreshClaims, err := ParseToken(pair.Refresh)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if refreshClaims.TokenType != "refresh" {
		t.Fatalf("refresh token type: %s", refreshClaims.TokenType)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	config.AppConfig = testConfig()
	user := &models.User{Username: "bob"}
	pair, err := GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	config.AppConfig = testConfig()
	config.AppConfig.JWTSecret = "a-completely-different-secret"
	if _, err := ParseToken(pair.Access); err == nil {
		t.Fatalf("token accepted with wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	config.AppConfig = testConfig()
	config.AppConfig.AccessExpiresIn = -time.Minute

	user := &models.User{Username: "carol"}
	pair, err := GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseToken(pair.Access); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	config.AppConfig = testConfig()
	if _, err := ParseToken("not.a.token"); err == nil {
		t.Fatalf("garbage token accepted")
	}
}
