package domain

import (
	"github.com/golang-jwt/jwt"
	"github.com/x-xyz/marketplace/base/ctx"
)

type JwtCustomClaims struct {
	Address string `json:"data"` // name data for backward compatibility
	jwt.StandardClaims
}

type AuthUsecase interface {
	// GetSigningMessage returns the message a wallet signs to log in
	GetSigningMessage(ctx ctx.Ctx, address Address) (string, error)
	// Login verifies signature against the signing message and issues a token
	Login(ctx ctx.Ctx, address Address, signature string) (string, error)
	SignToken(ctx ctx.Ctx, address Address) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (address string, err error)
}
