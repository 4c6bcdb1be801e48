package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	errUnexpectedSigningMethod = errors.New("unexpected signing method")
	errMissingSubject          = errors.New("token does not contain a valid 'sub' claim")
	errMissingSecret           = errors.New("no signing secret configured")
)

// GenerateToken creates a signed HS256 token for subject that expires after duration.
func GenerateToken(subject string, secret []byte, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ExtractUserIDFromToken verifies tokenString against secret (HS256, expiry)
// and returns its subject. An empty secret verifies nothing and is rejected.
func ExtractUserIDFromToken(tokenString string, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", errMissingSecret
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigningMethod
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	for _, key := range []string{"sub", "userId", "id"} {
		if id, ok := claims[key].(string); ok && id != "" {
			return id, nil
		}
	}
	return "", errMissingSubject
}
