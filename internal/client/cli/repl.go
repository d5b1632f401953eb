package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error

	Decks(ctx context.Context) error
	NewDeck(ctx context.Context) error
	RenameDeck(ctx context.Context) error
	DeleteDeck(ctx context.Context) error
	Cards(ctx context.Context) error
	Due(ctx context.Context) error
	AddCard(ctx context.Context) error
	EditCard(ctx context.Context) error
	DeleteCard(ctx context.Context) error
	Bulk(ctx context.Context) error

	Study(ctx context.Context) error
	Quiz(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error

	Sync(ctx context.Context) error
	Status(ctx context.Context) error
	Reset(ctx context.Context) error
}

const (
	helpCommon    = "Available commands: decks, newdeck, renamedeck, deletedeck, cards, due, add, edit, delete, bulk, study, quiz, profile, editprofile, status, ping, reset, exit"
	helpLoggedIn  = "Account: sync, logout"
	helpLoggedOut = "Account: register, login"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF, on "exit" or "quit", or when ctx is done.
// Command errors are reported and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("lc %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpCommon)
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "ping":
			cmdErr = a.Ping(ctx)

		case "decks":
			cmdErr = a.Decks(ctx)
		case "newdeck":
			cmdErr = a.NewDeck(ctx)
		case "renamedeck":
			cmdErr = a.RenameDeck(ctx)
		case "deletedeck":
			cmdErr = a.DeleteDeck(ctx)
		case "l", "cards":
			cmdErr = a.Cards(ctx)
		case "due":
			cmdErr = a.Due(ctx)
		case "add":
			cmdErr = a.AddCard(ctx)
		case "edit":
			cmdErr = a.EditCard(ctx)
		case "delete":
			cmdErr = a.DeleteCard(ctx)
		case "bulk":
			cmdErr = a.Bulk(ctx)

		case "study":
			cmdErr = a.Study(ctx)
		case "quiz":
			cmdErr = a.Quiz(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "editprofile":
			cmdErr = a.EditProfile(ctx)

		case "sync":
			cmdErr = a.Sync(ctx)
		case "status":
			cmdErr = a.Status(ctx)
		case "reset":
			cmdErr = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}
