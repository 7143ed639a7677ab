// Package token issues and verifies the HS256 session tokens.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"agrovision/entities"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	AccountID string        `json:"id"`
	Role      entities.Role `json:"role"`
	ClientIDs []string      `json:"clientesVinculados"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

func NewManager(secret string, expiration time.Duration, issuer string) *Manager {
	return &Manager{secret: []byte(secret), expiration: expiration, issuer: issuer, now: time.Now}
}

func (m *Manager) Expiration() time.Duration { return m.expiration }

// Issue signs a token for the account and returns it with its expiry.
func (m *Manager) Issue(a *entities.Account) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.expiration)
	claims := Claims{
		AccountID: a.ID,
		Role:      a.Role,
		ClientIDs: a.ClientIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   a.ID,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies signature, algorithm, issuer and expiry.
func (m *Manager) Parse(raw string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.AccountID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// FromHeader extracts the token of an "Authorization: Bearer <token>" value.
func FromHeader(h string) (string, bool) {
	raw, ok := strings.CutPrefix(h, "Bearer ")
	raw = strings.TrimSpace(raw)
	return raw, ok && raw != ""
}
