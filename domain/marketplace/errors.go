package marketplace

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/x-xyz/marketplace/domain"
)

type ErrorKind string

const (
	KindNotOwner             ErrorKind = "NotOwner"
	KindInvalidPrice         ErrorKind = "InvalidPrice"
	KindNotApproved          ErrorKind = "NotApproved"
	KindAlreadyListed        ErrorKind = "AlreadyListed"
	KindNotListed            ErrorKind = "NotListed"
	KindUnauthorizedCancel   ErrorKind = "UnauthorizedCancel"
	KindUnauthorizedUpdate   ErrorKind = "UnauthorizedUpdate"
	KindInvalidPaymentAmount ErrorKind = "InvalidPaymentAmount"
	KindTransferFailed       ErrorKind = "TransferFailed"
	KindNoProceeds           ErrorKind = "NoProceeds"
)

// Sentinels for errors.Is, matching is by kind only
var (
	ErrNotOwner             = &Error{Kind: KindNotOwner}
	ErrInvalidPrice         = &Error{Kind: KindInvalidPrice}
	ErrNotApproved          = &Error{Kind: KindNotApproved}
	ErrAlreadyListed        = &Error{Kind: KindAlreadyListed}
	ErrNotListed            = &Error{Kind: KindNotListed}
	ErrUnauthorizedCancel   = &Error{Kind: KindUnauthorizedCancel}
	ErrUnauthorizedUpdate   = &Error{Kind: KindUnauthorizedUpdate}
	ErrInvalidPaymentAmount = &Error{Kind: KindInvalidPaymentAmount}
	ErrTransferFailed       = &Error{Kind: KindTransferFailed}
	ErrNoProceeds           = &Error{Kind: KindNoProceeds}
)

// Error is a rejected marketplace operation with the values that caused it
type Error struct {
	Kind ErrorKind

	Caller     domain.Address
	Owner      domain.Address
	Seller     domain.Address
	Collection domain.Address
	TokenId    domain.TokenId
	Price      uint256.Int
	Expected   uint256.Int
	Actual     uint256.Int

	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotOwner:
		return fmt.Sprintf("NotOwner: caller %s, owner %s", e.Caller, e.Owner)
	case KindInvalidPrice:
		return fmt.Sprintf("InvalidPrice: %s", e.Price.Dec())
	case KindNotApproved, KindAlreadyListed, KindNotListed:
		return fmt.Sprintf("%s: %s/%s", e.Kind, e.Collection, e.TokenId)
	case KindUnauthorizedCancel, KindUnauthorizedUpdate:
		return fmt.Sprintf("%s: caller %s, seller %s", e.Kind, e.Caller, e.Seller)
	case KindInvalidPaymentAmount:
		return fmt.Sprintf("InvalidPaymentAmount: expected %s, actual %s", e.Expected.Dec(), e.Actual.Dec())
	case KindTransferFailed:
		return fmt.Sprintf("TransferFailed: %s/%s: %v", e.Collection, e.TokenId, e.Cause)
	case KindNoProceeds:
		return fmt.Sprintf("NoProceeds: %s", e.Caller)
	}
	return string(e.Kind)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Details returns the offending values of the error, keyed for clients
func (e *Error) Details() map[string]string {
	res := map[string]string{}
	set := func(k string, v domain.Address) {
		if v != "" {
			res[k] = string(v)
		}
	}
	set("caller", e.Caller)
	set("owner", e.Owner)
	set("seller", e.Seller)
	set("collection", e.Collection)
	if e.TokenId != "" {
		res["tokenId"] = e.TokenId.String()
	}
	switch e.Kind {
	case KindInvalidPrice:
		res["price"] = e.Price.Dec()
	case KindInvalidPaymentAmount:
		res["expected"] = e.Expected.Dec()
		res["actual"] = e.Actual.Dec()
	case KindTransferFailed:
		if e.Cause != nil {
			res["cause"] = e.Cause.Error()
		}
	}
	return res
}

func NotOwner(caller, owner domain.Address) *Error {
	return &Error{Kind: KindNotOwner, Caller: caller, Owner: owner}
}

func InvalidPrice(price uint256.Int) *Error {
	return &Error{Kind: KindInvalidPrice, Price: price}
}

func NotApproved(collection domain.Address, id domain.TokenId) *Error {
	return &Error{Kind: KindNotApproved, Collection: collection, TokenId: id}
}

func AlreadyListed(collection domain.Address, id domain.TokenId) *Error {
	return &Error{Kind: KindAlreadyListed, Collection: collection, TokenId: id}
}

func NotListed(collection domain.Address, id domain.TokenId) *Error {
	return &Error{Kind: KindNotListed, Collection: collection, TokenId: id}
}

func UnauthorizedCancel(caller, seller domain.Address) *Error {
	return &Error{Kind: KindUnauthorizedCancel, Caller: caller, Seller: seller}
}

func UnauthorizedUpdate(caller, seller domain.Address) *Error {
	return &Error{Kind: KindUnauthorizedUpdate, Caller: caller, Seller: seller}
}

func InvalidPaymentAmount(expected, actual uint256.Int) *Error {
	return &Error{Kind: KindInvalidPaymentAmount, Expected: expected, Actual: actual}
}

func TransferFailed(collection domain.Address, id domain.TokenId, cause error) *Error {
	return &Error{Kind: KindTransferFailed, Collection: collection, TokenId: id, Cause: cause}
}

func NoProceeds(caller domain.Address) *Error {
	return &Error{Kind: KindNoProceeds, Caller: caller}
}
