package ethereum

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMsgSignature(t *testing.T) {
	messageTemplate := "Sign in to the marketplace %s"
	privateKey, publicKey, err := GenerateKey()
	require.NoError(t, err)
	address := AddressOf(publicKey)
	message := []byte(fmt.Sprintf(messageTemplate, "123456"))

	signature, err := SignMsg(privateKey, message)
	require.NoError(t, err)

	res, err := ValidateMsgSignature(message, signature, address)
	assert.NoError(t, err)
	assert.True(t, res)

	// signature taken as is from crypto.Sign, V is 0/1
	raw, err := crypto.Sign(accounts.TextHash(message), privateKey)
	require.NoError(t, err)
	res, err = ValidateMsgSignature(message, hexutil.Encode(raw), address)
	assert.NoError(t, err)
	assert.True(t, res)

	// other message
	res, err = ValidateMsgSignature([]byte("654321"), signature, address)
	assert.NoError(t, err)
	assert.False(t, res)

	// other signer
	_, pubKey, err := GenerateKey()
	require.NoError(t, err)
	res, err = ValidateMsgSignature(message, signature, AddressOf(pubKey))
	assert.NoError(t, err)
	assert.False(t, res)
}

func TestRecoverMsgSignerInvalid(t *testing.T) {
	_, err := RecoverMsgSigner([]byte("msg"), "not-hex")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = RecoverMsgSigner([]byte("msg"), "0x1234")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	bad := make([]byte, crypto.SignatureLength)
	bad[crypto.RecoveryIDOffset] = 30
	_, err = RecoverMsgSigner([]byte("msg"), hexutil.Encode(bad))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
