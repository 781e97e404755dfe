package usecase

import (
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/custody"
)

type oracle struct {
	uc       custody.Usecase
	operator domain.Address
}

// NewOracle exposes the custody book to the marketplace, which moves tokens
// as operator
func NewOracle(uc custody.Usecase, operator domain.Address) custody.Oracle {
	return &oracle{uc: uc, operator: operator.ToLower()}
}

func (o *oracle) OwnerOf(c ctx.Ctx, collection domain.Address, id domain.TokenId) (domain.Address, error) {
	return o.uc.OwnerOf(c, collection, id)
}

// IsApprovedForTransfer is true when operator holds the token approval or is
// an operator of the owner
func (o *oracle) IsApprovedForTransfer(c ctx.Ctx, collection domain.Address, id domain.TokenId, operator domain.Address) (bool, error) {
	t, err := o.uc.GetToken(c, collection, id)
	if err != nil {
		return false, err
	}
	if !t.Approved.IsEmpty() && t.Approved.Equals(operator) {
		return true, nil
	}
	return o.uc.IsApprovedForAll(c, collection, t.Owner, operator)
}

func (o *oracle) Transfer(c ctx.Ctx, collection domain.Address, id domain.TokenId, from, to domain.Address) error {
	return o.uc.TransferFrom(c, o.operator, collection, id, from, to)
}
