package domain

import (
	"strconv"
	"strings"
)

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

// IsEmpty is true for both the empty string and the zero address
func (a Address) IsEmpty() bool {
	return len(a) == 0 || a.Equals(EmptyAddress)
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

// TokenId is the decimal identifier of a token within its collection
type TokenId string

func (i TokenId) String() string {
	return string(i)
}

// Uint64 parses the id, tokens minted by this service always fit
func (i TokenId) Uint64() (uint64, error) {
	return strconv.ParseUint(string(i), 10, 64)
}

func TokenIdFromUint64(n uint64) TokenId {
	return TokenId(strconv.FormatUint(n, 10))
}
