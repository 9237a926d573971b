package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenClaims is the token issued by the identity provider. The
// principal id travels in the registered subject claim.
type AccessTokenClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Email  string
}
