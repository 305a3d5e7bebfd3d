package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndParse(t *testing.T) {
	tok, err := MintToken("u-1", "admin", "admin", "secret", time.Now(), time.Hour)
	require.NoError(t, err)

	claims, err := ParseClaims(tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestParseClaims_Rejects(t *testing.T) {
	expired, err := MintToken("u-1", "admin", "admin", "secret", time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", expired, "other"},
		{"expired", expired, "secret"},
		{"garbage", "not-a-token", "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClaims(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}

	_, err = ParseClaims(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
