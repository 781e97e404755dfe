package custody

import (
	"errors"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrTokenNotFound     = errors.New("token not found")
	ErrNotAuthorized     = errors.New("caller is not token owner nor approved")
	ErrWrongOwner        = errors.New("transfer from incorrect owner")
	ErrInvalidReceiver   = errors.New("transfer to the zero address")
	ErrApproveToOwner    = errors.New("approval to current owner")
	ErrApproveToCaller   = errors.New("approve to caller")
)

// Oracle answers who owns a token and whether an operator may move it, and
// moves it. The marketplace never changes ownership any other way.
// Implementations that call back into the marketplace must pass the ctx they
// received, a call made with any other ctx waits for the running unit.
type Oracle interface {
	OwnerOf(c ctx.Ctx, collection domain.Address, id domain.TokenId) (domain.Address, error)
	IsApprovedForTransfer(c ctx.Ctx, collection domain.Address, id domain.TokenId, operator domain.Address) (bool, error)
	Transfer(c ctx.Ctx, collection domain.Address, id domain.TokenId, from, to domain.Address) error
}

// Collection is a configured token contract hosted by the custody book
type Collection struct {
	Address  domain.Address `mapstructure:"address"`
	Name     string         `mapstructure:"name"`
	Symbol   string         `mapstructure:"symbol"`
	TokenURI string         `mapstructure:"tokenUri"`
}

type Token struct {
	Collection domain.Address
	TokenId    domain.TokenId
	Owner      domain.Address
	// Approved is the single address allowed to move this token, empty when unset
	Approved domain.Address
	TokenURI string
	MintedAt time.Time
}

type OperatorApproval struct {
	Collection domain.Address
	Owner      domain.Address
	Operator   domain.Address
	Approved   bool
}

type Repo interface {
	// FindToken returns domain.ErrNotFound for tokens never minted
	FindToken(c ctx.Ctx, collection domain.Address, id domain.TokenId) (*Token, error)
	UpsertToken(c ctx.Ctx, t Token) error
	RemoveToken(c ctx.Ctx, collection domain.Address, id domain.TokenId) error
	CountByOwner(c ctx.Ctx, collection, owner domain.Address) (int, error)
	// NextTokenId bumps the collection counter and returns the new value, the first id is 1
	NextTokenId(c ctx.Ctx, collection domain.Address) (uint64, error)
	TokenCounter(c ctx.Ctx, collection domain.Address) (uint64, error)
	SetOperator(c ctx.Ctx, a OperatorApproval) error
	IsOperator(c ctx.Ctx, collection, owner, operator domain.Address) (bool, error)
}

type Usecase interface {
	GetCollection(c ctx.Ctx, collection domain.Address) (*Collection, error)
	Mint(c ctx.Ctx, caller, collection domain.Address) (domain.TokenId, error)
	Approve(c ctx.Ctx, caller, collection domain.Address, id domain.TokenId, operator domain.Address) error
	SetApprovalForAll(c ctx.Ctx, caller, collection, operator domain.Address, approved bool) error
	TransferFrom(c ctx.Ctx, operator, collection domain.Address, id domain.TokenId, from, to domain.Address) error

	OwnerOf(c ctx.Ctx, collection domain.Address, id domain.TokenId) (domain.Address, error)
	GetApproved(c ctx.Ctx, collection domain.Address, id domain.TokenId) (domain.Address, error)
	IsApprovedForAll(c ctx.Ctx, collection, owner, operator domain.Address) (bool, error)
	BalanceOf(c ctx.Ctx, collection, owner domain.Address) (int, error)
	GetToken(c ctx.Ctx, collection domain.Address, id domain.TokenId) (*Token, error)
	TokenCounter(c ctx.Ctx, collection domain.Address) (uint64, error)
}
