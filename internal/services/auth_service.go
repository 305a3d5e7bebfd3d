package services

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pratik-mahalle/alertprobe/internal/auth"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
)

// AuthConfig holds the single account the mock backend accepts
type AuthConfig struct {
	Username    string
	Password    string
	DisplayName string
	JWTSecret   string
	TokenExpiry time.Duration
	BCryptCost  int
}

// User is the account returned on login
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AuthService checks credentials and issues access tokens
type AuthService struct {
	username string
	hash     []byte
	user     User
	secret   string
	expiry   time.Duration
	logger   *logger.Logger
}

// NewAuthService creates an auth service. The configured password is kept
// only as a bcrypt hash.
func NewAuthService(cfg AuthConfig, log *logger.Logger) (*AuthService, error) {
	if log == nil {
		log = logger.Nop()
	}
	cost := cfg.BCryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), cost)
	if err != nil {
		return nil, errors.Internal("failed to hash admin password", err)
	}

	name := cfg.DisplayName
	if name == "" {
		name = "Administrator"
	}
	expiry := cfg.TokenExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	return &AuthService{
		username: cfg.Username,
		hash:     hash,
		user:     User{ID: "user-" + cfg.Username, DisplayName: name, Role: "admin"},
		secret:   cfg.JWTSecret,
		expiry:   expiry,
		logger:   log,
	}, nil
}

// Login verifies the credentials and mints an access token
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username != s.username || bcrypt.CompareHashAndPassword(s.hash, []byte(password)) != nil {
		s.logger.With("username", username).Warn("Login failed")
		return nil, errors.Unauthorized("invalid username or password")
	}

	token, err := auth.MintToken(s.user.ID, s.username, s.user.Role, s.secret, time.Now(), s.expiry)
	if err != nil {
		return nil, errors.Internal("failed to mint token", err)
	}

	s.logger.With("username", username).Info("User logged in")
	return &LoginResult{Token: token, User: s.user}, nil
}

// Author returns the comment author for a token subject
func (s *AuthService) Author(claims *auth.Claims) User {
	switch {
	case claims == nil:
		return User{}
	case claims.UserID == s.user.ID:
		return s.user
	}
	return User{ID: claims.UserID, DisplayName: claims.Username}
}
