package notifier

import (
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain/marketplace"
)

type logNotifier struct{}

// NewLog writes every event to the service log
func NewLog() marketplace.Notifier {
	return logNotifier{}
}

func (logNotifier) Name() string {
	return "log"
}

func (logNotifier) Accept(marketplace.EventType) bool {
	return true
}

func (logNotifier) Notify(c ctx.Ctx, evt marketplace.Event) error {
	fields := log.Fields{
		"eventId": evt.Id,
		"type":    evt.Type,
		"time":    evt.Time,
	}
	switch evt.Type {
	case marketplace.EventProceedsWithdrawn:
		fields["caller"] = evt.Caller
		fields["amount"] = evt.Amount.Dec()
	default:
		fields["collection"] = evt.Collection
		fields["tokenId"] = evt.TokenId
		fields["seller"] = evt.Seller
		fields["price"] = evt.Price.Dec()
		if !evt.Buyer.IsEmpty() {
			fields["buyer"] = evt.Buyer
		}
	}
	c.WithFields(fields).Info("marketplace event")
	return nil
}
