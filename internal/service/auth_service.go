package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"purefood/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// RoleAdmin is the only role a token can carry
	RoleAdmin = "admin"

	// DefaultTokenExpiration applies when no expiry is configured
	DefaultTokenExpiration = 24 * time.Hour
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService issues admin bearer tokens. Requests carrying them are
// checked by middleware.AuthMiddleware with the same secret.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Claims represents the JWT claims. Subject carries the admin username.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	admins    repository.AdminRepository
	jwtSecret string
	expiry    time.Duration
	now       func() time.Time
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(admins repository.AdminRepository, jwtSecret string, expiry time.Duration) AuthService {
	if expiry <= 0 {
		expiry = DefaultTokenExpiration
	}
	return &authService{
		admins:    admins,
		jwtSecret: jwtSecret,
		expiry:    expiry,
		now:       time.Now,
	}
}

// Login checks the credentials and returns a signed access token
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	if !s.admins.Verify(ctx, username, password) {
		return "", ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(username)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, nil
}

func (s *authService) generateAccessToken(username string) (string, error) {
	now := s.now()
	claims := &Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
