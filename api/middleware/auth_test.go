package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/gigboard-backend/pkg/auth"
	"github.com/angelmondragon/gigboard-backend/pkg/config"
)

func captureUser(t *testing.T, authenticator pkgAuth.Authenticator, req *http.Request) (int, string) {
	t.Helper()
	var user string
	handler := Auth(authenticator, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp.Code, user
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	code, _ := captureUser(t, pkgAuth.DevAuthenticator{}, req)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", code)
	}
}

func TestAuthDevStrategy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer dev:poster1")
	code, user := captureUser(t, pkgAuth.DevAuthenticator{}, req)
	if code != http.StatusOK || user != "poster1" {
		t.Fatalf("expected poster1 with 200, got %q with %d", user, code)
	}
}

func TestAuthProviderStrategy(t *testing.T) {
	cfg := config.AuthConfig{Strategy: config.AuthStrategyProvider, JWTSecret: "secret", JWTIssuer: "gigboard"}
	authenticator, err := pkgAuth.NewAuthenticator(cfg)
	if err != nil {
		t.Fatalf("build authenticator: %v", err)
	}

	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), "bidder1", time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	code, user := captureUser(t, authenticator, req)
	if code != http.StatusOK || user != "bidder1" {
		t.Fatalf("expected bidder1 with 200, got %q with %d", user, code)
	}

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.Header.Set("Authorization", "Bearer dev:bidder1")
	if code, _ := captureUser(t, authenticator, bad); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for dev token under provider strategy, got %d", code)
	}
}
