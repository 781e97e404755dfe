package notifier

import (
	"fmt"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain/marketplace"
)

// Invalidator drops a cached GET response
type Invalidator interface {
	Invalidate(c ctx.Ctx, path string) error
}

type cacheNotifier struct {
	cache Invalidator
}

// NewCacheInvalidator evicts the cached listing of every token whose listing changed
func NewCacheInvalidator(cache Invalidator) marketplace.Notifier {
	return &cacheNotifier{cache: cache}
}

func (n *cacheNotifier) Name() string {
	return "cache"
}

func (n *cacheNotifier) Accept(t marketplace.EventType) bool {
	return t != marketplace.EventProceedsWithdrawn
}

func (n *cacheNotifier) Notify(c ctx.Ctx, evt marketplace.Event) error {
	return n.cache.Invalidate(c, ListingPath(evt))
}

// ListingPath is the GET path of the listing evt is about
func ListingPath(evt marketplace.Event) string {
	return fmt.Sprintf("/listings/%s/%s", evt.Collection.ToLowerStr(), evt.TokenId)
}
