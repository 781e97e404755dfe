package usecase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/ethereum"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
)

const tokenTTL = 24 * time.Hour

var timeNow = time.Now

type impl struct {
	jwtSecret          []byte
	signingMsgTemplate string
}

// New returns the wallet login usecase. signingMsgTemplate holds one %s
// replaced by the lower-cased address.
func New(jwtSecret, signingMsgTemplate string) domain.AuthUsecase {
	return &impl{
		jwtSecret:          []byte(jwtSecret),
		signingMsgTemplate: signingMsgTemplate,
	}
}

func (im *impl) GetSigningMessage(ctx ctx.Ctx, address domain.Address) (string, error) {
	return fmt.Sprintf(im.signingMsgTemplate, address.ToLowerStr()), nil
}

func (im *impl) Login(ctx ctx.Ctx, address domain.Address, signature string) (string, error) {
	msg, err := im.GetSigningMessage(ctx, address)
	if err != nil {
		return "", err
	}

	ok, err := ethereum.ValidateMsgSignature([]byte(msg), signature, string(address))
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "address": address}).Warn("ethereum.ValidateMsgSignature failed")
		return "", domain.ErrInvalidSignature
	}
	if !ok {
		return "", domain.ErrInvalidSignature
	}

	return im.SignToken(ctx, address.ToLower())
}

func (im *impl) SignToken(ctx ctx.Ctx, address domain.Address) (string, error) {
	claims := domain.JwtCustomClaims{
		Address: string(address),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: timeNow().Add(tokenTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		ctx.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) ParseToken(ctx ctx.Ctx, str string) (string, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})

	if token != nil {
		if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
			return claims.Address, nil
		}
	}

	if err == nil {
		err = domain.ErrUnauthorized
	}
	return "", err
}
