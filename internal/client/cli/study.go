package cli

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/dmitrijs2005/linguacards/internal/models"
)

const quizSize = 10

// shuffle is a test seam.
var shuffle = func(cards []models.Flashcard) {
	rand.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

func parseRating(s string) (models.Rating, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "again":
		return models.RatingAgain, true
	case "g", "good":
		return models.RatingGood, true
	case "e", "easy":
		return models.RatingEasy, true
	}
	return "", false
}

// Study walks through the due cards. Typing q at the rating prompt ends the
// session early.
func (a *App) Study(ctx context.Context) error {
	due, err := a.library.DueCards(ctx)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		a.printf("Nothing to review. Come back later!\n")
		return nil
	}

	reviewed := 0
session:
	for _, c := range due {
		a.printf("\n%s\n", c.Front)
		if _, err := getSimpleText(a.reader, "Press Enter to show the answer", a.out); err != nil {
			return err
		}
		a.printCardBack(c)

		for {
			ans, err := getSimpleText(a.reader, "Rate: (a)gain, (g)ood, (e)asy, (q)uit", a.out)
			if err != nil {
				return err
			}
			if strings.EqualFold(ans, "q") {
				break session
			}
			rating, ok := parseRating(ans)
			if !ok {
				continue
			}
			res, err := a.study.Review(ctx, c.ID, rating)
			if err != nil {
				return err
			}
			reviewed++
			a.printReward(res.Reward)
			break
		}
	}

	a.printf("Session complete: %d of %d card(s) reviewed.\n", reviewed, len(due))
	return nil
}

func (a *App) printCardBack(c models.Flashcard) {
	a.printf("= %s\n", c.Back)
	if c.Pronunciation != "" {
		a.printf("  /%s/\n", c.Pronunciation)
	}
	if c.PartOfSpeech != "" {
		a.printf("  (%s)\n", c.PartOfSpeech)
	}
	for _, d := range c.Definition {
		a.printf("  - %s\n", d)
	}
	for _, e := range c.ExampleSentenceTarget {
		a.printf("  e.g. %s\n", e)
	}
}

// Quiz asks for the back of up to ten random cards and scores exact answers,
// ignoring case.
func (a *App) Quiz(ctx context.Context) error {
	cards, err := a.library.Cards(ctx, "")
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		a.printf("Add some cards first.\n")
		return nil
	}
	shuffle(cards)
	if len(cards) > quizSize {
		cards = cards[:quizSize]
	}

	score := 0
	for _, c := range cards {
		ans, err := getSimpleText(a.reader, c.Front, a.out)
		if err != nil {
			return err
		}
		if strings.EqualFold(strings.TrimSpace(ans), strings.TrimSpace(c.Back)) {
			score++
			a.printf("Correct!\n")
		} else {
			a.printf("Answer: %s\n", c.Back)
		}
	}

	reward, err := a.study.CompleteQuiz(ctx, score, len(cards))
	if err != nil {
		return err
	}
	a.printf("Score: %d/%d\n", score, len(cards))
	a.printReward(reward)
	return nil
}
