package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/matchday-dev/cup-manager/utils"
)

const adminTokenTTL = 24 * time.Hour

type AuthService interface {
	// Login checks the admin password and returns a signed session token.
	Login(ctx context.Context, password string) (string, error)
}

type authService struct {
	adminPasswordHash string
	jwtSecret         []byte
}

func NewAuthService(adminPasswordHash, jwtSecret string) AuthService {
	return &authService{
		adminPasswordHash: adminPasswordHash,
		jwtSecret:         []byte(jwtSecret),
	}
}

func (s *authService) Login(_ context.Context, password string) (string, error) {
	if !utils.CheckPasswordHash(password, s.adminPasswordHash) {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  now.Add(adminTokenTTL).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
