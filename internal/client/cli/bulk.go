package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/dmitrijs2005/linguacards/internal/client/services"
)

// parseCardLine reads "front ; back" or "front<TAB>back".
func parseCardLine(line string) (services.CardInput, bool) {
	sep := ";"
	if strings.Contains(line, "\t") {
		sep = "\t"
	}
	front, back, ok := strings.Cut(line, sep)
	if !ok {
		return services.CardInput{}, false
	}
	return services.CardInput{Front: strings.TrimSpace(front), Back: strings.TrimSpace(back)}, true
}

// Bulk imports many cards into one deck. Ctrl+C stops the import after the
// cards already being written.
func (a *App) Bulk(ctx context.Context) error {
	deck, err := getSimpleText(a.reader, "Deck name", a.out)
	if err != nil {
		return err
	}
	lines, err := GetLines(a.reader, "One card per line: front ; back", a.out)
	if err != nil {
		return err
	}

	cards := make([]services.CardInput, 0, len(lines))
	skipped := 0
	for _, l := range lines {
		in, ok := parseCardLine(l)
		if !ok {
			skipped++
			continue
		}
		cards = append(cards, in)
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	stopCancel := context.AfterFunc(sigCtx, a.bulk.Cancel)
	defer stopCancel()

	res, err := a.bulk.Add(ctx, deck, cards)
	if err != nil {
		if res.Added > 0 {
			a.printf("Added %d card(s) before the error; they are kept.\n", res.Added)
		}
		return err
	}

	a.printf("Added %d, failed %d, skipped %d line(s).\n", res.Added, res.Failed, skipped)
	if res.Cancelled {
		a.printf("Import cancelled; cards added so far are kept.\n")
	}
	a.printReward(res.Reward)
	return nil
}
