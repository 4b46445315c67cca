package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// GenerateToken mints an access token carrying the user's id and email.
func GenerateToken(userID uint, email string, secret string, expireMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"id":    float64(userID),
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(expireMinutes) * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAndGetClaims parses and verifies a token, returning its claims.
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
