// Package token issues and verifies the signed access/refresh token pair.
// The two token types are signed with separate secrets, so a token of one
// type can never pass verification as the other.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMalformed    = errors.New("malformed token")
	ErrSignature    = errors.New("invalid token signature")
	ErrExpired      = errors.New("token expired")
	ErrTypeMismatch = errors.New("unexpected token type")
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

type Claims struct {
	TokenType Type `json:"typ"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh token secrets must differ")
	}

	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

func (m *Manager) IssueAccess(userID uuid.UUID) (string, error) {
	return m.issue(userID, TypeAccess, m.accessSecret, m.accessTTL)
}

func (m *Manager) IssueRefresh(userID uuid.UUID) (string, error) {
	return m.issue(userID, TypeRefresh, m.refreshSecret, m.refreshTTL)
}

func (m *Manager) IssuePair(userID uuid.UUID) (Pair, error) {
	access, err := m.IssueAccess(userID)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.IssueRefresh(userID)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *Manager) issue(userID uuid.UUID, typ Type, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify checks signature, expiry and the typ claim against the expected
// token type. Expiry is compared strictly; no clock-skew leeway is applied.
func (m *Manager) Verify(tokenString string, want Type) (*Claims, error) {
	secret := m.accessSecret
	if want == TypeRefresh {
		secret = m.refreshSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignature
		default:
			return nil, ErrMalformed
		}
	}

	if !token.Valid {
		return nil, ErrMalformed
	}
	if claims.TokenType != want {
		return nil, ErrTypeMismatch
	}

	return claims, nil
}
