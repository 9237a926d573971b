package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/gigboard-backend/pkg/config"
)

const (
	// DevUserHeader lets local clients name the caller directly.
	DevUserHeader  = "X-User-Id"
	devTokenPrefix = "dev:"
)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authenticator resolves the principal of an inbound request.
type Authenticator interface {
	Authenticate(r *http.Request) (Principal, error)
}

// NewAuthenticator returns the strategy selected by configuration.
func NewAuthenticator(cfg config.AuthConfig) (Authenticator, error) {
	switch cfg.Strategy {
	case config.AuthStrategyDev:
		return DevAuthenticator{}, nil
	case config.AuthStrategyProvider:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("jwt secret is required for %s strategy", config.AuthStrategyProvider)
		}
		return ProviderAuthenticator{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unsupported auth strategy %q", cfg.Strategy)
	}
}

// DevAuthenticator trusts "Bearer dev:<id>" or the X-User-Id header.
type DevAuthenticator struct{}

func (DevAuthenticator) Authenticate(r *http.Request) (Principal, error) {
	if token, ok := bearerToken(r); ok {
		if !strings.HasPrefix(token, devTokenPrefix) {
			return Principal{}, ErrInvalidCredentials
		}
		id := strings.TrimSpace(strings.TrimPrefix(token, devTokenPrefix))
		if id == "" {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{UserID: id}, nil
	}
	if id := strings.TrimSpace(r.Header.Get(DevUserHeader)); id != "" {
		return Principal{UserID: id}, nil
	}
	return Principal{}, ErrMissingCredentials
}

// ProviderAuthenticator verifies HS256 tokens issued by the identity provider.
type ProviderAuthenticator struct {
	cfg config.AuthConfig
}

func (p ProviderAuthenticator) Authenticate(r *http.Request) (Principal, error) {
	token, ok := bearerToken(r)
	if !ok {
		return Principal{}, ErrMissingCredentials
	}
	claims, err := ParseAccessToken(p.cfg, token)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return Principal{UserID: claims.Subject, Email: claims.Email}, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
