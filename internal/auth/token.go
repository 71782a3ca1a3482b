package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the bearer token payload. Subject is the account id;
// everything else is the standard issued-at/expiry pair plus a jti.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager mints and verifies stateless signed tokens. The clock is
// injectable so expiry can be driven in tests.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// NewManagerWithClock is the test hook for expiry checks.
func NewManagerWithClock(secret string, ttl time.Duration, now func() time.Time) *Manager {
	m := NewManager(secret, ttl)
	m.now = now
	return m
}

// Mint produces a signed token naming the account id, expiring after the
// configured TTL.
func (m *Manager) Mint(accountID string) (string, error) {
	now := m.now().UTC()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature, shape and expiry. Any failure means "not
// authenticated"; callers must never surface it as a server error.
func (m *Manager) Verify(tokenStr string) (claims *Claims, err error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now().UTC() }))

	if err != nil {
		return
	}
	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		err = errors.New("invalid token")
		return
	}

	if claims.Subject == "" {
		err = errors.New("missing subject")
		return
	}
	return
}
