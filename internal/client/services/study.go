package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/linguacards/internal/client/store"
	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/gamification"
	"github.com/dmitrijs2005/linguacards/internal/models"
)

var reviewXP = map[models.Rating]int{
	models.RatingAgain: 0,
	models.RatingGood:  5,
	models.RatingEasy:  10,
}

// ReviewResult is the outcome of one review.
type ReviewResult struct {
	Card models.Flashcard
	Reward
}

// StudyService records reviews and quizzes.
type StudyService interface {
	Review(ctx context.Context, cardID string, rating models.Rating) (ReviewResult, error)
	CompleteQuiz(ctx context.Context, score, total int) (Reward, error)
}

type studyService struct {
	store Store
	sync  Syncer
	cfg   config
}

func NewStudyService(st Store, sync Syncer, opts ...Option) StudyService {
	return &studyService{store: st, sync: sync, cfg: newConfig(opts)}
}

func (s *studyService) Review(ctx context.Context, cardID string, rating models.Rating) (ReviewResult, error) {
	if !rating.Valid() {
		return ReviewResult{}, fmt.Errorf("rating %q: %w", rating, common.ErrInvalidPayload)
	}

	var res ReviewResult
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) error {
		card, err := r.Flashcards.Get(ctx, cardID)
		if err != nil {
			return err
		}
		if card == nil || card.IsDeleted {
			return fmt.Errorf("card %s: %w", cardID, common.ErrNotFound)
		}

		next := s.cfg.scheduler.Schedule(*card, rating)
		next.UpdatedAt = s.cfg.stamp()
		if err := r.Flashcards.Put(ctx, next); err != nil {
			return err
		}

		if err := r.StudyLogs.Add(ctx, models.StudyLog{CardID: cardID, Date: s.cfg.today(), Rating: rating}); err != nil {
			return err
		}

		reward, err := s.cfg.record(ctx, r, activity{xp: reviewXP[rating], goal: models.GoalStudy, goalValue: 1})
		if err != nil {
			return err
		}

		res = ReviewResult{Card: next, Reward: reward}
		return nil
	})
	if err != nil {
		return ReviewResult{}, err
	}

	s.sync.NotifyChange()
	return res, nil
}

// CompleteQuiz advances QUIZ goals. A perfect score unlocks the quiz
// achievement.
func (s *studyService) CompleteQuiz(ctx context.Context, score, total int) (Reward, error) {
	if total <= 0 || score < 0 || score > total {
		return Reward{}, fmt.Errorf("quiz score %d/%d: %w", score, total, common.ErrInvalidPayload)
	}

	var res Reward
	err := s.store.InTx(ctx, func(ctx context.Context, r store.Repositories) (err error) {
		res, err = s.cfg.record(ctx, r, activity{
			goal:      models.GoalQuiz,
			goalValue: 1,
			quiz:      &gamification.QuizScore{Score: score, Total: total},
		})
		return err
	})
	if err != nil {
		return Reward{}, err
	}

	s.sync.NotifyChange()
	return res, nil
}
