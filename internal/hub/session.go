package hub

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long an issued session token stays valid.
const DefaultSessionTTL = 12 * time.Hour

// SessionManager issues and verifies signed session tokens. The token is
// the only session state: it carries the granted tier as a claim, signed
// with an HMAC key, so the client can hold it across reloads without the
// server keeping a session record and without the tier being tamperable.
type SessionManager struct {
	key   []byte
	ttl   time.Duration
	clock Clock
	idgen IDGenerator
}

// sessionClaims is the internal claims type used for JWT parsing.
type sessionClaims struct {
	jwt.RegisteredClaims
	Tier string `json:"tier"`
}

// NewSessionManager creates a SessionManager signing with key.
// A zero ttl falls back to DefaultSessionTTL.
func NewSessionManager(key []byte, ttl time.Duration, clock Clock, idgen IDGenerator) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{key: key, ttl: ttl, clock: clock, idgen: idgen}
}

// Issue creates a signed token granting the given tier.
func (m *SessionManager) Issue(tier Tier) (string, error) {
	if tier != TierUser && tier != TierAdmin {
		return "", fmt.Errorf("cannot issue session for tier %q", tier)
	}

	now := m.clock.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        m.idgen.New(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Tier: string(tier),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return token, nil
}

// Verify parses and validates a token, returning the tier it grants.
// Any invalid, expired, or tampered token verifies to TierNone with an
// error describing why.
func (m *SessionManager) Verify(token string) (Tier, error) {
	if token == "" {
		return TierNone, fmt.Errorf("empty session token")
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil {
		return TierNone, fmt.Errorf("parsing session token: %w", err)
	}

	tier := ParseTier(parsed.Tier)
	if tier == TierNone {
		return TierNone, fmt.Errorf("session token carries no valid tier")
	}
	return tier, nil
}
