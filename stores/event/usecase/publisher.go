package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/goroutine"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/base/metrics"
	"github.com/x-xyz/marketplace/domain/marketplace"
)

const (
	scheduleTimeout = 3 * time.Second
	notifyTimeout   = 10 * time.Second
)

// Publisher stores events and hands them to the notifiers on a worker pool
type Publisher struct {
	repo      marketplace.EventRepo
	notifiers []marketplace.Notifier
	pool      *goroutines.Pool
	met       metrics.Service
}

func New(repo marketplace.EventRepo, met metrics.Service, notifiers ...marketplace.Notifier) *Publisher {
	return &Publisher{
		repo:      repo,
		notifiers: notifiers,
		pool:      goroutines.NewPool(32, goroutines.WithTaskQueueLength(1024), goroutines.WithPreAllocWorkers(8)),
		met:       met,
	}
}

// Publish stores evts and schedules their notifications. Only the store can fail.
func (p *Publisher) Publish(c ctx.Ctx, evts ...marketplace.Event) error {
	if len(evts) == 0 {
		return nil
	}
	for i := range evts {
		if evts[i].Id == "" {
			evts[i].Id = uuid.NewString()
		}
	}

	if err := p.repo.Store(c, evts...); err != nil {
		c.WithFields(log.Fields{"err": err, "count": len(evts)}).Error("repo.Store failed")
		return err
	}

	for _, evt := range evts {
		p.met.BumpSum("published", 1, "type", string(evt.Type))
		for _, n := range p.notifiers {
			if !n.Accept(evt.Type) {
				continue
			}
			p.schedule(c, n, evt)
		}
	}
	return nil
}

func (p *Publisher) schedule(c ctx.Ctx, n marketplace.Notifier, evt marketplace.Event) {
	// the request ctx is gone once the response is written
	nc := ctx.From(context.Background(), c.Logger.WithFields(log.Fields{
		"notifier": n.Name(),
		"eventId":  evt.Id,
	}))

	err := p.pool.ScheduleWithTimeout(scheduleTimeout, func() {
		goroutine.Safe(func() {
			tc, cancel := ctx.WithTimeout(nc, notifyTimeout)
			defer cancel()
			if err := n.Notify(tc, evt); err != nil {
				p.met.BumpSum("notify.err", 1, "notifier", n.Name())
				tc.WithField("err", err).Error("notifier.Notify failed")
			}
		}, goroutine.WithName(n.Name()))
	})
	if err != nil {
		p.met.BumpSum("schedule.err", 1, "notifier", n.Name())
		nc.WithField("err", err).Error("failed to ScheduleWithTimeout")
	}
}

// Close waits for the scheduled notifications and stops the workers
func (p *Publisher) Close() {
	p.pool.Release()
}
