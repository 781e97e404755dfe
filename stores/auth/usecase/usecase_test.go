package usecase_test

import (
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/ethereum"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/stores/auth/usecase"
)

const template = "Sign in to the marketplace as %s"

func TestSignAndParseToken(t *testing.T) {
	ctx := ctx.Background()
	u := usecase.New("jwt-secret", template)
	tkn, err := u.SignToken(ctx, "my-address")
	assert.NoError(t, err)
	assert.NotEmpty(t, tkn)
	ads, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.Equal(t, "my-address", ads)

	_, err = usecase.New("other-secret", template).ParseToken(ctx, tkn)
	assert.Error(t, err)

	_, err = u.ParseToken(ctx, "not-a-token")
	assert.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	claims := domain.JwtCustomClaims{
		Address:        "my-address",
		StandardClaims: jwt.StandardClaims{ExpiresAt: 1},
	}
	tkn, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("jwt-secret"))
	require.NoError(t, err)

	_, err = usecase.New("jwt-secret", template).ParseToken(ctx.Background(), tkn)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	c := ctx.Background()
	u := usecase.New("jwt-secret", template)

	key, pub, err := ethereum.GenerateKey()
	require.NoError(t, err)
	address := domain.Address(ethereum.AddressOf(pub))

	msg, err := u.GetSigningMessage(c, address)
	require.NoError(t, err)
	assert.Equal(t, "Sign in to the marketplace as "+address.ToLowerStr(), msg)

	sig, err := ethereum.SignMsg(key, []byte(msg))
	require.NoError(t, err)

	tkn, err := u.Login(c, address, sig)
	require.NoError(t, err)
	ads, err := u.ParseToken(c, tkn)
	require.NoError(t, err)
	assert.Equal(t, address.ToLowerStr(), ads)

	// a signature for someone else
	other, _, err := ethereum.GenerateKey()
	require.NoError(t, err)
	forged, err := ethereum.SignMsg(other, []byte(msg))
	require.NoError(t, err)
	_, err = u.Login(c, address, forged)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)

	_, err = u.Login(c, address, "0x1234")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}
