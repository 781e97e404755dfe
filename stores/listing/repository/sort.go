package repository

import (
	"strings"

	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/listing"
)

// 2^256-1 has 78 decimal digits
const tokenIdWidth = 78

// sortKey left pads the token id so that string order is numeric order
func sortKey(id domain.TokenId) string {
	s := id.String()
	if len(s) >= tokenIdWidth {
		return s
	}
	return strings.Repeat("0", tokenIdWidth-len(s)) + s
}

func less(a, b listing.Id) bool {
	ac, bc := a.Collection.ToLowerStr(), b.Collection.ToLowerStr()
	if ac != bc {
		return ac < bc
	}
	return sortKey(a.TokenId) < sortKey(b.TokenId)
}

func page(offset, limit *int32, n int) (int, int) {
	start, end := 0, n
	if offset != nil {
		start = int(*offset)
	}
	if start > n {
		start = n
	}
	if limit != nil && *limit > 0 && start+int(*limit) < n {
		end = start + int(*limit)
	}
	return start, end
}
