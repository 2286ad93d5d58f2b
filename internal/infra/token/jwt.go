package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessLifetime is how long an access token stays valid. It is not
// configurable.
const AccessLifetime = 45 * time.Minute

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongType    = errors.New("unexpected token type")
)

type Claims struct {
	UserID    uint64 `json:"user_id"`
	Role      string `json:"role"`
	TokenType Type   `json:"token_type"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Maker issues and verifies HS256 tokens.
type Maker struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type Option func(*Maker)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Maker) { m.now = now }
}

func NewMaker(secret string, refreshTTL time.Duration, opts ...Option) (*Maker, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: empty secret")
	}
	m := &Maker{
		secret:     []byte(secret),
		accessTTL:  AccessLifetime,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Maker) IssuePair(userID uint64, role string) (Pair, error) {
	access, err := m.issue(userID, role, TypeAccess, m.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.issue(userID, role, TypeRefresh, m.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *Maker) IssueAccess(userID uint64, role string) (string, error) {
	return m.issue(userID, role, TypeAccess, m.accessTTL)
}

func (m *Maker) issue(userID uint64, role string, typ Type, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:    userID,
		Role:      role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and checks its signature, expiry and type.
func (m *Maker) Verify(tokenString string, want Type) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenType != want {
		return nil, ErrWrongType
	}
	return claims, nil
}
