package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/logging"
	"github.com/dmitrijs2005/linguacards/internal/merge"
	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/dmitrijs2005/linguacards/internal/server/repositories/accounts"
)

const (
	DefaultMergeRetries = 5

	defaultRetryInterval = 25 * time.Millisecond
	maxRetryInterval     = 500 * time.Millisecond
)

// Archiver keeps the previous remote snapshot before it is overwritten.
type Archiver interface {
	Archive(ctx context.Context, username string, day time.Time, data models.SyncData) error
}

type SyncService struct {
	repo          accounts.Repository
	archiver      Archiver
	log           logging.Logger
	retries       uint
	retryInterval time.Duration
	now           func() time.Time
}

type SyncOption func(*SyncService)

// WithArchiver enables snapshot backups.
func WithArchiver(a Archiver) SyncOption {
	return func(s *SyncService) { s.archiver = a }
}

// WithMergeRetries limits the attempts of one merge under contention.
func WithMergeRetries(n uint) SyncOption {
	return func(s *SyncService) {
		if n > 0 {
			s.retries = n
		}
	}
}

// WithRetryInterval sets the first backoff interval between attempts.
func WithRetryInterval(d time.Duration) SyncOption {
	return func(s *SyncService) { s.retryInterval = d }
}

func WithSyncClock(now func() time.Time) SyncOption {
	return func(s *SyncService) { s.now = now }
}

func NewSyncService(repo accounts.Repository, log logging.Logger, opts ...SyncOption) *SyncService {
	s := &SyncService{
		repo:          repo,
		log:           log,
		retries:       DefaultMergeRetries,
		retryInterval: defaultRetryInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the stored snapshot, or nil when the account does not exist.
func (s *SyncService) Load(ctx context.Context, username string) (*models.SyncData, error) {
	acct, err := s.repo.Get(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return &acct.Data, nil
}

// Merge reconciles the client snapshot with the stored one and persists the
// result. The write is conditional on the version read; on a concurrent
// write the whole fetch-merge-write is retried with exponential backoff.
// When the attempts run out common.ErrVersionConflict is returned.
func (s *SyncService) Merge(ctx context.Context, username string, data models.SyncData) (models.SyncData, error) {
	attempt := 0
	op := func() (models.SyncData, error) {
		attempt++

		acct, err := s.repo.Get(ctx, username)
		if err != nil {
			return models.SyncData{}, backoff.Permanent(fmt.Errorf("error loading account: %w", err))
		}

		previous := acct.Data
		acct.Data = merge.Merge(data, previous)

		s.archive(ctx, username, previous)

		if err := s.repo.Update(ctx, acct); err != nil {
			if errors.Is(err, common.ErrVersionConflict) {
				s.log.Debug(ctx, "merge lost a race, retrying", "username", username, "attempt", attempt)
				return models.SyncData{}, err
			}
			return models.SyncData{}, backoff.Permanent(fmt.Errorf("error saving account: %w", err))
		}
		return acct.Data, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryInterval
	b.MaxInterval = maxRetryInterval

	merged, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(s.retries),
	)
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			s.log.Warn(ctx, "merge retries exhausted", "username", username, "attempts", attempt)
		}
		return models.SyncData{}, err
	}

	s.log.Info(ctx, "merged snapshot",
		"username", username,
		"decks", len(merged.Decks),
		"cards", len(merged.Cards),
		"attempts", attempt,
	)
	return merged, nil
}

// archive is best effort; failures never fail the sync.
func (s *SyncService) archive(ctx context.Context, username string, data models.SyncData) {
	if s.archiver == nil || isEmpty(data) {
		return
	}
	if err := s.archiver.Archive(ctx, username, s.now(), data); err != nil {
		s.log.Warn(ctx, "snapshot backup failed", "username", username, "error", err)
	}
}

func isEmpty(d models.SyncData) bool {
	return len(d.Decks) == 0 && len(d.Cards) == 0 && len(d.StudyHistory) == 0 &&
		d.UserProfile == nil && len(d.UserAchievements) == 0
}
