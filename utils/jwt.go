package utils

import (
	"errors"
	"time"

	"voicedesk/config"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "voicedesk-dev"
	}
	return []byte(secret)
}

// RoomGrants describes what the token holder may do in a realtime room.
type RoomGrants struct {
	Room         string `json:"room"`
	CanPublish   bool   `json:"canPublish"`
	CanSubscribe bool   `json:"canSubscribe"`
}

// GenerateRoomToken creates a signed JWT granting the given identity
// access to a realtime audio room. The frontend exchanges it with the
// room server to join the call.
func GenerateRoomToken(identity, room string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  identity,
		"name": identity,
		"video": RoomGrants{
			Room:         room,
			CanPublish:   true,
			CanSubscribe: true,
		},
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractIdentityFromToken extracts the subject from a valid token.
func ExtractIdentityFromToken(tokenString string) (string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token missing subject")
	}
	return sub, nil
}
