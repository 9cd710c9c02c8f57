package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session tokens are issued by the external identity provider; this package
// only verifies them and extracts the principal. The signing secret is
// injected at startup, never read from a package-level variable.

// Principal is the authenticated caller extracted from a session token.
type Principal struct {
	CoachID string
	Role    string
}

// Roles recognized in session tokens.
const (
	RoleCoach = "coach"
	RoleAdmin = "admin"
)

// ValidateToken parses and verifies a session token and returns the
// principal it carries.
func ValidateToken(secret []byte, tokenString string) (Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return Principal{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Principal{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Principal{}, errors.New("invalid subject claim")
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = RoleCoach
	}
	return Principal{CoachID: sub, Role: role}, nil
}

// GenerateToken signs a session token for the given principal. The API
// server itself never issues tokens; this exists for local development
// seeding and tests.
func GenerateToken(secret []byte, p Principal, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  p.CoachID,
		"role": p.Role,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
