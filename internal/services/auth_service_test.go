package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pratik-mahalle/alertprobe/internal/auth"
)

func TestAuthService_Login(t *testing.T) {
	svc, err := NewAuthService(AuthConfig{
		Username:    "admin",
		Password:    "Aa123456",
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
		BCryptCost:  bcrypt.MinCost,
	}, nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid credentials", "admin", "Aa123456", false},
		{"wrong password", "admin", "nope", true},
		{"unknown user", "root", "Aa123456", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "UNAUTHORIZED", codeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "admin", res.User.Role)

			claims, err := auth.ParseClaims(res.Token, "test-secret")
			require.NoError(t, err)
			assert.Equal(t, res.User.ID, claims.UserID)
			assert.Equal(t, res.User, svc.Author(claims))
		})
	}
}
