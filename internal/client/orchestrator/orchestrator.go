// Package orchestrator decides when the device synchronizes.
//
// Local mutations call NotifyChange, which (re)arms a debounce timer. When the
// timer fires one sync cycle runs:
//
//	snapshot -> server merge -> re-merge with a fresh snapshot -> upsert
//
// The re-merge keeps edits made while the request was in flight. Only one
// cycle runs at a time. Bulk operations bracket their work with Suspend and
// Resume so that a single cycle follows them.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/logging"
	"github.com/dmitrijs2005/linguacards/internal/merge"
	"github.com/dmitrijs2005/linguacards/internal/models"
)

const (
	DefaultDebounce    = 2 * time.Second
	DefaultSyncTimeout = 30 * time.Second
)

// LocalStore is the part of the local store the orchestrator needs.
type LocalStore interface {
	Snapshot(ctx context.Context) (models.SyncData, error)
	ApplySnapshot(ctx context.Context, d models.SyncData) error
	Wipe(ctx context.Context) error
	Owner(ctx context.Context) (string, error)
	SetOwner(ctx context.Context, username string) error
	SetLastSyncedAt(ctx context.Context, t time.Time) error
}

// Remote is the sync server.
type Remote interface {
	Load(ctx context.Context, username string) (*models.SyncData, error)
	Merge(ctx context.Context, username string, data models.SyncData) (*models.SyncData, error)
}

type Orchestrator struct {
	store  LocalStore
	remote Remote
	log    logging.Logger

	debounce time.Duration
	timeout  time.Duration
	now      func() time.Time

	mu        sync.Mutex
	username  string
	suspended int
	pending   bool
	running   bool
	closed    bool
	timer     *time.Timer
	status    Status
	subs      map[chan Status]struct{}
	wg        sync.WaitGroup
}

type Option func(*Orchestrator)

func WithDebounce(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithSyncTimeout bounds one sync cycle started by the debounce timer.
func WithSyncTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func New(store LocalStore, remote Remote, log logging.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		remote:   remote,
		log:      log,
		debounce: DefaultDebounce,
		timeout:  DefaultSyncTimeout,
		now:      time.Now,
		subs:     make(map[chan Status]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Load runs at login or registration. It pulls the account's snapshot,
// wipes the store first if it belongs to another account, merges the remote
// data over the local rows and arms a sync so local-only rows reach the
// server.
func (o *Orchestrator) Load(ctx context.Context, username string) error {
	remote, err := o.remote.Load(ctx, username)
	if err != nil {
		return fmt.Errorf("load remote snapshot: %w", err)
	}

	owner, err := o.store.Owner(ctx)
	if err != nil {
		return err
	}
	if owner != "" && !strings.EqualFold(owner, username) {
		o.log.Info(ctx, "local store belongs to another account, wiping", "owner", owner, "username", username)
		if err := o.store.Wipe(ctx); err != nil {
			return err
		}
	}

	if remote != nil {
		local, err := o.store.Snapshot(ctx)
		if err != nil {
			return err
		}
		if err := o.store.ApplySnapshot(ctx, merge.Merge(local, *remote)); err != nil {
			return err
		}
	}

	if err := o.store.SetOwner(ctx, username); err != nil {
		return err
	}

	o.mu.Lock()
	o.username = username
	o.mu.Unlock()

	o.NotifyChange()
	return nil
}

// Logout stops syncing. Local data is kept until another account logs in.
func (o *Orchestrator) Logout() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.username = ""
	o.pending = false
	o.stopTimerLocked()
}

// Username returns the logged-in account or "".
func (o *Orchestrator) Username() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.username
}

// NotifyChange records a local mutation. It is a no-op when nobody is
// logged in.
func (o *Orchestrator) NotifyChange() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || o.username == "" {
		return
	}
	if o.suspended > 0 || o.running {
		o.pending = true
		return
	}
	o.armLocked()
}

func (o *Orchestrator) armLocked() {
	o.stopTimerLocked()
	o.pending = true
	if o.status.State == StateSynced || o.status.State == StateError {
		o.status.State = StateIdle
		o.broadcastLocked()
	}
	o.timer = time.AfterFunc(o.debounce, o.fire)
}

func (o *Orchestrator) stopTimerLocked() {
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
}

func (o *Orchestrator) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	err := o.SyncNow(ctx)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrSyncInProgress):
		o.NotifyChange()
	default:
		o.log.Warn(ctx, "background sync failed", "error", err)
	}
}

// SyncNow runs one sync cycle. It returns common.ErrSyncInProgress without
// doing anything if a cycle is already running. A failed cycle leaves the
// local data untouched.
func (o *Orchestrator) SyncNow(ctx context.Context) error {
	o.mu.Lock()
	switch {
	case o.closed:
		o.mu.Unlock()
		return errors.New("orchestrator is closed")
	case o.username == "":
		o.mu.Unlock()
		return fmt.Errorf("sync requires login: %w", common.ErrUnauthorized)
	case o.running:
		o.mu.Unlock()
		return common.ErrSyncInProgress
	}
	username := o.username
	o.running = true
	o.pending = false
	o.stopTimerLocked()
	o.status.State = StateSyncing
	o.broadcastLocked()
	o.wg.Add(1)
	o.mu.Unlock()

	defer o.wg.Done()

	err := o.cycle(ctx, username)
	o.finish(ctx, err)
	return err
}

func (o *Orchestrator) cycle(ctx context.Context, username string) error {
	local, err := o.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read local snapshot: %w", err)
	}

	merged, err := o.remote.Merge(ctx, username, local)
	if err != nil {
		return fmt.Errorf("merge on server: %w", err)
	}

	fresh, err := o.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read local snapshot: %w", err)
	}

	if err := o.store.ApplySnapshot(ctx, merge.Merge(fresh, *merged)); err != nil {
		return fmt.Errorf("apply merged snapshot: %w", err)
	}
	return nil
}

func (o *Orchestrator) finish(ctx context.Context, err error) {
	now := o.now()
	if err == nil {
		if serr := o.store.SetLastSyncedAt(ctx, now); serr != nil {
			o.log.Warn(ctx, "failed to record sync time", "error", serr)
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.running = false
	if err != nil {
		o.status.State = StateError
		o.status.LastError = err
	} else {
		o.status.State = StateSynced
		o.status.LastError = nil
		o.status.LastSyncedAt = now
	}
	o.broadcastLocked()

	if o.pending && o.suspended == 0 && o.username != "" && !o.closed {
		o.armLocked()
	}
}

// Suspend defers syncing until the matching Resume. Calls nest.
func (o *Orchestrator) Suspend() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.suspended++
	if o.timer != nil {
		o.stopTimerLocked()
		o.pending = true
	}
}

// Resume undoes one Suspend and arms the debounce if changes were recorded
// meanwhile.
func (o *Orchestrator) Resume() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.suspended > 0 {
		o.suspended--
	}
	if o.suspended == 0 && o.pending && !o.running && !o.closed && o.username != "" {
		o.armLocked()
	}
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.status
	s.Pending = o.pending
	return s
}

// Subscribe returns a channel receiving the latest status after every state
// change. Slow readers only see the most recent one. The returned function
// unsubscribes and closes the channel.
func (o *Orchestrator) Subscribe() (<-chan Status, func()) {
	ch := make(chan Status, 1)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	o.subs[ch] = struct{}{}
	o.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if _, ok := o.subs[ch]; ok {
				delete(o.subs, ch)
				close(ch)
			}
		})
	}
}

func (o *Orchestrator) broadcastLocked() {
	s := o.status
	s.Pending = o.pending
	for ch := range o.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

// Close stops the debounce timer and waits for a running cycle.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.stopTimerLocked()
	o.mu.Unlock()

	o.wg.Wait()

	o.mu.Lock()
	for ch := range o.subs {
		delete(o.subs, ch)
		close(ch)
	}
	o.mu.Unlock()
}
