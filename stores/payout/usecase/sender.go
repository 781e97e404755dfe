package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/payout"
)

var timeNow = time.Now

type ledgerSender struct {
	repo payout.Repo
}

// NewLedgerSender pays by recording a payout instruction, a settlement
// process outside this service moves the funds
func NewLedgerSender(repo payout.Repo) payout.Sender {
	return &ledgerSender{repo: repo}
}

func (s *ledgerSender) Send(c ctx.Ctx, to domain.Address, amount uint256.Int) error {
	p := payout.Payout{
		Id:        uuid.NewString(),
		To:        to.ToLower(),
		Amount:    amount,
		CreatedAt: timeNow().UTC(),
	}
	if err := s.repo.Insert(c, p); err != nil {
		c.WithFields(log.Fields{"err": err, "to": to, "amount": amount.Dec()}).Error("repo.Insert failed")
		return err
	}
	c.WithFields(log.Fields{"payoutId": p.Id, "to": p.To, "amount": amount.Dec()}).Info("payout recorded")
	return nil
}
