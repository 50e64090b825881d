package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "todo")

	tok, exp, err := m.IssueToken("u1", "ann@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "ann@example.com", claims.Email)
}

func TestIssueTokenRequiresUserID(t *testing.T) {
	_, _, err := NewJWTManager("secret", time.Hour, "todo").IssueToken("", "a@b.c")
	assert.Error(t, err)
}

func TestParseTokenFailures(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "todo")
	good, _, err := m.IssueToken("u1", "a@b.c")
	require.NoError(t, err)

	expired, _, err := NewJWTManager("secret", -time.Minute, "todo").IssueToken("u1", "a@b.c")
	require.NoError(t, err)

	otherKey, _, err := NewJWTManager("other", time.Hour, "todo").IssueToken("u1", "a@b.c")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": "u1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", expired, ErrExpiredToken},
		{"wrong key", otherKey, ErrInvalidToken},
		{"alg none", unsigned, ErrInvalidToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"tampered", good + "x", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ParseToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
