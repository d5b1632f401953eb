package services

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/client/store"
	"github.com/dmitrijs2005/linguacards/internal/srs"
	"github.com/dmitrijs2005/linguacards/internal/timex"
	"github.com/go-playground/validator/v10"
)

// DefaultBulkConcurrency is how many cards a bulk add writes at once.
const DefaultBulkConcurrency = 3

// Store is the transactional view of the local store the services need.
// *store.Store implements it.
type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context, r store.Repositories) error) error
}

// Syncer is the part of the sync orchestrator the services drive.
type Syncer interface {
	Load(ctx context.Context, username string) error
	Logout()
	NotifyChange()
	Suspend()
	Resume()
}

var validate = validator.New()

type config struct {
	now         func() time.Time
	rand        *rand.Rand
	scheduler   srs.Scheduler
	concurrency int
}

// Option configures a service.
type Option func(*config)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithRand fixes the source used to pick daily goals.
func WithRand(r *rand.Rand) Option {
	return func(c *config) { c.rand = r }
}

// WithScheduler replaces the SM-2 scheduler.
func WithScheduler(s srs.Scheduler) Option {
	return func(c *config) { c.scheduler = s }
}

// WithConcurrency sets the number of bulk add workers.
func WithConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

func newConfig(opts []Option) config {
	c := config{now: time.Now, concurrency: DefaultBulkConcurrency}
	for _, opt := range opts {
		opt(&c)
	}
	if c.scheduler == nil {
		c.scheduler = srs.NewSM2(c.now)
	}
	return c
}

func (c config) today() string {
	return timex.FormatDate(c.now())
}

func (c config) stamp() string {
	return timex.FormatInstant(c.now())
}
