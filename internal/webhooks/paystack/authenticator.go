// Package paystack authenticates and reconciles Paystack webhook callbacks.
package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"

	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
)

// Authenticator checks the HMAC-SHA512 signature Paystack sends with every
// callback. It holds no state beyond the secret.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Verify compares signature against HMAC-SHA512(secret, raw). raw must be the
// body exactly as received.
func (a *Authenticator) Verify(raw []byte, signature string) error {
	if a == nil || len(a.secret) == 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, "webhook secret not configured")
	}
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, "signature missing")
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, "signature is not hex encoded")
	}
	if !hmac.Equal(provided, a.mac(raw)) {
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, "signature mismatch")
	}
	return nil
}

// Sign returns the hex signature Paystack would send for raw.
func (a *Authenticator) Sign(raw []byte) string {
	return hex.EncodeToString(a.mac(raw))
}

func (a *Authenticator) mac(raw []byte) []byte {
	h := hmac.New(sha512.New, a.secret)
	h.Write(raw)
	return h.Sum(nil)
}
