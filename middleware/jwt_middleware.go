// middleware/jwt_middleware.go
package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/HSouheill/webinar_backend/models"
)

// ServiceClaims identify a backend caller such as the landing page renderer
type ServiceClaims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// Valid implements the Claims interface
func (c ServiceClaims) Valid() error {
	if c.Role != models.RoleService {
		return errors.New("not a service token")
	}
	if c.Subject == "" {
		return errors.New("token has no subject")
	}
	return c.StandardClaims.Valid()
}

// GenerateServiceToken signs an HS256 service token for name. A zero ttl
// produces a token without expiry.
func GenerateServiceToken(secret, name string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("service token secret is empty")
	}
	now := time.Now()
	claims := ServiceClaims{
		Role: models.RoleService,
		StandardClaims: jwt.StandardClaims{
			Subject:  name,
			IssuedAt: now.Unix(),
			Issuer:   "webinar_backend",
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseServiceToken verifies signature and claims of a service token
func ParseServiceToken(secret, tokenString string) (*ServiceClaims, error) {
	if secret == "" {
		return nil, errors.New("service tokens are disabled")
	}
	claims := &ServiceClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
