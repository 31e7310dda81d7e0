package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("access-secret", "refresh-secret", 15*time.Minute, 240*time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewManager_RejectsBadSecrets(t *testing.T) {
	_, err := NewManager("", "refresh", time.Minute, time.Minute)
	assert.Error(t, err)

	_, err = NewManager("same", "same", time.Minute, time.Minute)
	assert.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestManager(t)
	userID := uuid.New()

	pair, err := m.IssuePair(userID)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := m.Verify(pair.AccessToken, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), access.Subject)
	assert.Equal(t, TypeAccess, access.TokenType)

	refresh, err := m.Verify(pair.RefreshToken, TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), refresh.Subject)
	assert.Equal(t, TypeRefresh, refresh.TokenType)
}

func TestVerify_CrossTypeFailsSignature(t *testing.T) {
	m := newTestManager(t)

	access, err := m.IssueAccess(uuid.New())
	require.NoError(t, err)

	// Signed with the access secret, so it can never verify as a refresh
	// token.
	_, err = m.Verify(access, TypeRefresh)
	assert.ErrorIs(t, err, ErrSignature)
}

func TestVerify_TypeMismatch(t *testing.T) {
	m := newTestManager(t)

	// A token signed with the refresh secret but carrying the access type
	// claim is caught by the typ check.
	claims := Claims{
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("refresh-secret"))
	require.NoError(t, err)

	_, err = m.Verify(forged, TypeRefresh)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestVerify_Expired(t *testing.T) {
	m, err := NewManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)
	require.NoError(t, err)

	expired, err := m.IssueAccess(uuid.New())
	require.NoError(t, err)

	_, err = m.Verify(expired, TypeAccess)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_Malformed(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Verify("not-a-token", TypeAccess)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = m.Verify("", TypeAccess)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestVerify_TamperedSignature(t *testing.T) {
	m := newTestManager(t)

	access, err := m.IssueAccess(uuid.New())
	require.NoError(t, err)

	tampered := access[:len(access)-2] + "xx"
	_, err = m.Verify(tampered, TypeAccess)
	assert.ErrorIs(t, err, ErrSignature)
}
