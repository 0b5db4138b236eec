package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartattend/attendance-api/internal/models"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
)

// TokenService verifies access tokens issued by the external identity
// system. It only consumes tokens; issuance, passwords and OTP flows live
// elsewhere.
type TokenService struct {
	secret []byte
}

// NewTokenService constructs the service.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Validate parses and verifies an HS256 access token.
func (s *TokenService) Validate(raw string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	if claims.EmployeeID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token missing employee identity")
	}
	return claims, nil
}
