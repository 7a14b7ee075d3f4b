package utils

import (
	"os"
	"time"

	"velora_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

func GenerateJWT(profile models.Profile) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}

	role := profile.Role
	if role == "" {
		role = "customer"
	}

	claims := jwt.MapClaims{
		"user_id": profile.ID,
		"email":   profile.Email,
		"role":    role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
