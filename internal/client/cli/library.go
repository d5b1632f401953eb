package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/linguacards/internal/client/services"
	"github.com/dmitrijs2005/linguacards/internal/models"
)

func (a *App) Decks(ctx context.Context) error {
	decks, err := a.library.Decks(ctx)
	if err != nil {
		return err
	}
	cards, err := a.library.Cards(ctx, "")
	if err != nil {
		return err
	}
	count := make(map[string]int, len(decks))
	for _, c := range cards {
		count[c.DeckID]++
	}
	for _, d := range decks {
		a.printf("%s  %s (%d cards)\n", d.ID, d.Name, count[d.ID])
	}
	return nil
}

func (a *App) NewDeck(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Deck name", a.out)
	if err != nil {
		return err
	}
	d, err := a.library.CreateDeck(ctx, name)
	if err != nil {
		return err
	}
	a.printf("Deck %q created (%s)\n", d.Name, d.ID)
	return nil
}

func (a *App) RenameDeck(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Deck id", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "New name", a.out)
	if err != nil {
		return err
	}
	if err := a.library.RenameDeck(ctx, id, name); err != nil {
		return err
	}
	a.printf("Deck renamed.\n")
	return nil
}

func (a *App) DeleteDeck(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Deck id", a.out)
	if err != nil {
		return err
	}
	if !a.confirm("Delete the deck and all its cards?") {
		return nil
	}
	if err := a.library.DeleteDeck(ctx, id); err != nil {
		return err
	}
	a.printf("Deck deleted.\n")
	return nil
}

func (a *App) Cards(ctx context.Context) error {
	deckID, err := getSimpleText(a.reader, "Deck id (empty for all)", a.out)
	if err != nil {
		return err
	}
	cards, err := a.library.Cards(ctx, deckID)
	if err != nil {
		return err
	}
	for _, c := range cards {
		a.printf("%s  %s = %s  (due %s)\n", c.ID, c.Front, c.Back, shortDate(c.DueDate))
	}
	a.printf("%d card(s)\n", len(cards))
	return nil
}

func (a *App) Due(ctx context.Context) error {
	due, err := a.library.DueCards(ctx)
	if err != nil {
		return err
	}
	a.printf("%d card(s) due\n", len(due))
	return nil
}

func (a *App) AddCard(ctx context.Context) error {
	in, err := a.readCard(services.CardInput{})
	if err != nil {
		return err
	}
	card, reward, err := a.library.SaveCard(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Card added (%s)\n", card.ID)
	a.printReward(reward)
	return nil
}

func (a *App) EditCard(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Card id", a.out)
	if err != nil {
		return err
	}
	cards, err := a.library.Cards(ctx, "")
	if err != nil {
		return err
	}
	var current *models.Flashcard
	for i := range cards {
		if cards[i].ID == id {
			current = &cards[i]
		}
	}
	if current == nil {
		a.printf("No card %q.\n", id)
		return nil
	}

	deckName := ""
	decks, err := a.library.Decks(ctx)
	if err != nil {
		return err
	}
	for _, d := range decks {
		if d.ID == current.DeckID {
			deckName = d.Name
		}
	}

	in, err := a.readCard(services.CardInput{
		ID:                    current.ID,
		DeckName:              deckName,
		Front:                 current.Front,
		Back:                  current.Back,
		Pronunciation:         current.Pronunciation,
		PartOfSpeech:          current.PartOfSpeech,
		Definition:            current.Definition,
		ExampleSentenceTarget: current.ExampleSentenceTarget,
		Notes:                 current.Notes,
		AudioSrc:              current.AudioSrc,
	})
	if err != nil {
		return err
	}
	if _, _, err := a.library.SaveCard(ctx, in); err != nil {
		return err
	}
	a.printf("Card updated.\n")
	return nil
}

func (a *App) DeleteCard(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Card id", a.out)
	if err != nil {
		return err
	}
	if err := a.library.DeleteCard(ctx, id); err != nil {
		return err
	}
	a.printf("Card deleted.\n")
	return nil
}

// readCard prompts for every editable field. An empty answer keeps the value
// shown in brackets.
func (a *App) readCard(cur services.CardInput) (services.CardInput, error) {
	fields := []struct {
		prompt string
		value  *string
	}{
		{"Deck", &cur.DeckName},
		{"Front", &cur.Front},
		{"Back", &cur.Back},
		{"Pronunciation", &cur.Pronunciation},
		{"Part of speech", &cur.PartOfSpeech},
		{"Notes", &cur.Notes},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, withCurrent(f.prompt, *f.value), a.out)
		if err != nil {
			return cur, err
		}
		if v != "" {
			*f.value = v
		}
	}

	lists := []struct {
		prompt string
		value  *[]string
	}{
		{"Definitions (separated by ;)", &cur.Definition},
		{"Examples (separated by ;)", &cur.ExampleSentenceTarget},
	}
	for _, l := range lists {
		v, err := getSimpleText(a.reader, withCurrent(l.prompt, strings.Join(*l.value, "; ")), a.out)
		if err != nil {
			return cur, err
		}
		if v != "" {
			*l.value = splitList(v)
		}
	}
	return cur, nil
}

func withCurrent(prompt, current string) string {
	if current == "" {
		return prompt
	}
	return fmt.Sprintf("%s [%s]", prompt, current)
}

func shortDate(instant string) string {
	if len(instant) >= 10 {
		return instant[:10]
	}
	return instant
}

func (a *App) confirm(question string) bool {
	ans, err := getSimpleText(a.reader, question+" (yes/no)", a.out)
	return err == nil && strings.EqualFold(ans, "yes")
}
