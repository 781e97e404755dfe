package usecase

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/payout"
	"github.com/x-xyz/marketplace/domain/payout/mocks"
	"github.com/x-xyz/marketplace/stores/payout/repository"
)

func TestLedgerSender(t *testing.T) {
	c := ctx.Background()
	repo := repository.NewMemory()
	s := NewLedgerSender(repo)

	require.NoError(t, s.Send(c, "0xA11CE00000000000000000000000000000000001", *uint256.NewInt(42)))

	ps, err := repo.FindAll(c)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.NotEmpty(t, ps[0].Id)
	assert.Equal(t, domain.Address("0xa11ce00000000000000000000000000000000001"), ps[0].To)
	assert.Equal(t, uint64(42), ps[0].Amount.Uint64())
}

func TestLedgerSenderInsertFails(t *testing.T) {
	repo := &mocks.Repo{}
	boom := errors.New("boom")
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(p payout.Payout) bool {
		return p.Amount.Uint64() == 1
	})).Return(boom).Once()

	err := NewLedgerSender(repo).Send(ctx.Background(), "0xb0b0000000000000000000000000000000000002", *uint256.NewInt(1))
	assert.ErrorIs(t, err, boom)
	repo.AssertExpectations(t)
}
