package authservice

import (
	"context"

	"github.com/dgrijalva/jwt-go"
)

type Claims struct {
	UserID string `json:"user_id"`
	jwt.StandardClaims
}

type IAuthService interface {
	VerifyToken(ctx context.Context, tokenString string) (*Claims, error)
}
