package hub

import (
	"crypto/subtle"
	"errors"
)

// Tier is the privilege level held by a session.
type Tier string

const (
	TierNone  Tier = "none"
	TierUser  Tier = "user"
	TierAdmin Tier = "admin"
)

// ErrInvalidCredential is returned when the submitted password matches
// neither configured secret. The message is deliberately generic.
var ErrInvalidCredential = errors.New("invalid credential")

// ErrNotConfigured is returned when either secret is unset. Distinct from a
// wrong password so operators notice misconfiguration instead of users
// silently being locked out (or let in).
var ErrNotConfigured = errors.New("authentication not configured")

// AuthService validates a submitted password against two configured secrets
// and maps it to a privilege tier. The comparison is plaintext by design:
// this targets a small trusted user base behind an intranet.
type AuthService struct {
	userSecret  string
	adminSecret string
}

// NewAuthService creates an AuthService with the given secrets. Empty
// strings mean unconfigured; Authenticate then fails closed.
func NewAuthService(userSecret, adminSecret string) *AuthService {
	return &AuthService{userSecret: userSecret, adminSecret: adminSecret}
}

// Authenticate returns the tier granted for password.
// The admin secret is checked first, so when both secrets are configured to
// the same value the caller is granted admin.
func (s *AuthService) Authenticate(password string) (Tier, error) {
	if s.userSecret == "" || s.adminSecret == "" {
		return TierNone, ErrNotConfigured
	}
	if secretsEqual(password, s.adminSecret) {
		return TierAdmin, nil
	}
	if secretsEqual(password, s.userSecret) {
		return TierUser, nil
	}
	return TierNone, ErrInvalidCredential
}

func secretsEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ParseTier converts a string into a Tier, defaulting to TierNone for
// anything unrecognized.
func ParseTier(s string) Tier {
	switch Tier(s) {
	case TierUser:
		return TierUser
	case TierAdmin:
		return TierAdmin
	default:
		return TierNone
	}
}

// Allows reports whether a session at tier t may access a view requiring
// required. Admin implies user.
func (t Tier) Allows(required Tier) bool {
	switch required {
	case TierNone:
		return true
	case TierUser:
		return t == TierUser || t == TierAdmin
	case TierAdmin:
		return t == TierAdmin
	default:
		return false
	}
}
