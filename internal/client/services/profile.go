package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/linguacards/internal/client/store"
	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/gamification"
	"github.com/dmitrijs2005/linguacards/internal/models"
	"github.com/dmitrijs2005/linguacards/internal/timex"
)

// streakBonusPerDay is paid per streak day when the streak grows.
const streakBonusPerDay = 10

type ProfileInput struct {
	FirstName string `validate:"max=100"`
	LastName  string `validate:"max=100"`
	Bio       string `validate:"max=1000"`
}

// StreakCheck is the outcome of the daily streak check.
type StreakCheck struct {
	Streak int
	// Checked is false when the check already ran today.
	Checked bool
	Reward
}

// ProfileService exposes the user's progress.
//
// RefreshDailyGoals and CheckStreak are meant to run once when the app starts;
// both are no-ops when they already ran on the current local day.
type ProfileService interface {
	Get(ctx context.Context) (models.UserProfile, error)
	Update(ctx context.Context, in ProfileInput) (models.UserProfile, error)
	AwardXP(ctx context.Context, points int) (gamification.LevelInfo, error)
	RefreshDailyGoals(ctx context.Context) (*models.DailyGoals, error)
	CheckStreak(ctx context.Context) (StreakCheck, error)
	Achievements(ctx context.Context) ([]models.UserAchievement, error)
}

type profileService struct {
	store Store
	sync  Syncer
	cfg   config
}

func NewProfileService(st Store, sync Syncer, opts ...Option) ProfileService {
	return &profileService{store: st, sync: sync, cfg: newConfig(opts)}
}

func (s *profileService) Get(ctx context.Context) (models.UserProfile, error) {
	var p models.UserProfile
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) (err error) {
		p, err = loadProfile(ctx, r)
		return err
	})
	return p, err
}

// Update replaces the editable fields and stamps profileLastUpdated, which
// decides whose fields win a merge.
func (s *profileService) Update(ctx context.Context, in ProfileInput) (models.UserProfile, error) {
	if err := validate.Struct(in); err != nil {
		return models.UserProfile{}, fmt.Errorf("%w: %w", common.ErrInvalidPayload, err)
	}

	var p models.UserProfile
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) (err error) {
		if p, err = loadProfile(ctx, r); err != nil {
			return err
		}
		p.FirstName = in.FirstName
		p.LastName = in.LastName
		p.Bio = in.Bio
		p.ProfileLastUpdated = s.cfg.stamp()
		return r.Profile.Put(ctx, p)
	})
	if err != nil {
		return models.UserProfile{}, err
	}

	s.sync.NotifyChange()
	return p, nil
}

func (s *profileService) AwardXP(ctx context.Context, points int) (gamification.LevelInfo, error) {
	if points <= 0 {
		return gamification.LevelInfo{}, fmt.Errorf("xp %d: %w", points, common.ErrInvalidPayload)
	}

	var info gamification.LevelInfo
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) error {
		reward, err := s.cfg.record(ctx, r, activity{xp: points})
		info = reward.Level
		return err
	})
	if err != nil {
		return gamification.LevelInfo{}, err
	}

	s.sync.NotifyChange()
	return info, nil
}

func (s *profileService) RefreshDailyGoals(ctx context.Context) (*models.DailyGoals, error) {
	var (
		goals   *models.DailyGoals
		changed bool
	)
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) error {
		p, err := loadProfile(ctx, r)
		if err != nil {
			return err
		}
		if changed, err = s.cfg.refreshGoals(ctx, r, &p); err != nil {
			return err
		}
		goals = p.DailyGoals
		if !changed {
			return nil
		}
		return r.Profile.Put(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.sync.NotifyChange()
	}
	return goals, nil
}

// CheckStreak pays the streak bonus when the streak grew since the last
// check, advances STREAK goals and stamps lastStreakCheck.
func (s *profileService) CheckStreak(ctx context.Context) (StreakCheck, error) {
	today := s.cfg.today()

	var res StreakCheck
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) error {
		p, err := loadProfile(ctx, r)
		if err != nil {
			return err
		}
		logs, err := r.StudyLogs.List(ctx, nil)
		if err != nil {
			return err
		}

		res.Streak = gamification.CalculateStreak(logs, s.cfg.now())
		if p.LastStreakCheck == today {
			return nil
		}

		var bonus int
		if res.Streak > streakAt(logs, p.LastStreakCheck) {
			bonus = res.Streak * streakBonusPerDay
		}

		p.LastStreakCheck = today
		if err := r.Profile.Put(ctx, p); err != nil {
			return err
		}

		reward, err := s.cfg.record(ctx, r, activity{xp: bonus, goal: models.GoalStreak, goalValue: res.Streak})
		if err != nil {
			return err
		}
		res.Checked = true
		res.Reward = reward
		return nil
	})
	if err != nil {
		return StreakCheck{}, err
	}

	if res.Checked {
		s.sync.NotifyChange()
	}
	return res, nil
}

// streakAt is the streak as it stood on day, ignoring later reviews. An empty
// or unparseable day means no earlier check, so the streak was 0.
func streakAt(logs []models.StudyLog, day string) int {
	at := timex.ParseInstant(day)
	if at.IsZero() {
		return 0
	}
	var before []models.StudyLog
	for _, l := range logs {
		if l.Date <= day {
			before = append(before, l)
		}
	}
	return gamification.CalculateStreak(before, at)
}

func (s *profileService) Achievements(ctx context.Context) ([]models.UserAchievement, error) {
	var out []models.UserAchievement
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) (err error) {
		out, err = r.Achievements.List(ctx, nil)
		return err
	})
	return out, err
}
