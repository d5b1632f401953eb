package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/linguacards/internal/client/store"
	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/logging"
	"golang.org/x/sync/errgroup"
)

// BulkResult reports a bulk add. Cards written before a cancel or a store
// error are kept.
type BulkResult struct {
	Added     int
	Failed    int
	Cancelled bool
	Reward
}

// BulkService adds many cards to one deck. Syncing is suspended while it runs
// so the whole batch goes out in a single cycle.
type BulkService interface {
	Add(ctx context.Context, deckName string, cards []CardInput) (BulkResult, error)
	// Cancel stops a running Add after the cards already in flight.
	Cancel()
}

type bulkService struct {
	store     Store
	sync      Syncer
	log       logging.Logger
	cfg       config
	cancelled atomic.Bool
}

func NewBulkService(st Store, sync Syncer, log logging.Logger, opts ...Option) BulkService {
	return &bulkService{store: st, sync: sync, log: log, cfg: newConfig(opts)}
}

func (b *bulkService) Cancel() {
	b.cancelled.Store(true)
}

func (b *bulkService) stopped(ctx context.Context) bool {
	return b.cancelled.Load() || ctx.Err() != nil
}

func (b *bulkService) Add(ctx context.Context, deckName string, cards []CardInput) (BulkResult, error) {
	deckName = strings.TrimSpace(deckName)
	if deckName == "" {
		return BulkResult{}, fmt.Errorf("deck name is empty: %w", common.ErrInvalidPayload)
	}
	b.cancelled.Store(false)

	b.sync.Suspend()
	defer b.sync.Resume()

	var deckID string
	err := b.store.InTx(ctx, func(ctx context.Context, r store.Repositories) error {
		d, err := findOrCreateDeck(ctx, r, deckName)
		deckID = d.ID
		return err
	})
	if err != nil {
		return BulkResult{}, err
	}
	b.sync.NotifyChange()

	now := b.cfg.stamp()
	var added, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.concurrency)
	for i, in := range cards {
		if b.stopped(gctx) {
			break
		}
		g.Go(func() error {
			if b.stopped(gctx) {
				return nil
			}
			in.DeckName = deckName
			in.ID = ""
			in = in.normalized()
			if err := in.check(); err != nil {
				b.log.Warn(gctx, "bulk add: card rejected", "index", i, "error", err)
				failed.Add(1)
				return nil
			}
			card := newCard(in, deckID, now)
			err := b.store.InTx(gctx, func(ctx context.Context, r store.Repositories) error {
				return r.Flashcards.Put(ctx, card)
			})
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				b.log.Error(gctx, "bulk add: card not saved", "index", i, "error", err)
				failed.Add(1)
				return fmt.Errorf("bulk add card %d: %w", i, err)
			}
			added.Add(1)
			return nil
		})
	}
	storeErr := g.Wait()

	res := BulkResult{
		Added:     int(added.Load()),
		Failed:    int(failed.Load()),
		Cancelled: b.stopped(ctx),
	}
	if res.Added == 0 {
		return res, storeErr
	}

	// Progress is recorded for the cards that made it, even after a cancel.
	bctx := context.WithoutCancel(ctx)
	err = b.store.InTx(bctx, func(ctx context.Context, r store.Repositories) (err error) {
		res.Reward, err = b.cfg.record(ctx, r, activity{xp: newCardXP * res.Added})
		return err
	})
	if err != nil {
		return res, err
	}

	b.log.Info(bctx, "bulk add finished", "deck", deckName, "added", res.Added, "failed", res.Failed, "cancelled", res.Cancelled)
	b.sync.NotifyChange()
	return res, storeErr
}
