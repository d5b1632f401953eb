// Package services contains server-side business logic: account registration
// and login, and the load/merge operations of cloud sync.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/logging"
	"github.com/dmitrijs2005/linguacards/internal/server/auth"
	"github.com/dmitrijs2005/linguacards/internal/server/models"
	"github.com/dmitrijs2005/linguacards/internal/server/repositories/accounts"
)

// Session is the result of a successful register or login.
type Session struct {
	Username string
	Token    string
}

type AccountService struct {
	repo          accounts.Repository
	jwtSecret     []byte
	tokenValidity time.Duration
	log           logging.Logger
}

func NewAccountService(repo accounts.Repository, secret string, tokenValidity time.Duration, log logging.Logger) *AccountService {
	return &AccountService{
		repo:          repo,
		jwtSecret:     []byte(secret),
		tokenValidity: tokenValidity,
		log:           log,
	}
}

// Register creates an account with an empty snapshot. An existing account
// with the same case-insensitive name yields common.ErrConflict.
func (s *AccountService) Register(ctx context.Context, username, password string) (*Session, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	acct := models.NewAccount(username, hash)
	if err := s.repo.Create(ctx, acct); err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.log.Info(ctx, "account registered", "username", common.NormalizeUsername(username))
	return s.session(acct.Username)
}

// Login verifies the password. A missing account yields common.ErrNotFound
// and a wrong password common.ErrUnauthorized.
func (s *AccountService) Login(ctx context.Context, username, password string) (*Session, error) {
	acct, err := s.repo.Get(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	if err := auth.CheckPassword(acct.PasswordHash, password); err != nil {
		return nil, err
	}

	return s.session(acct.Username)
}

// Authenticate returns the normalized owner of a session token.
func (s *AccountService) Authenticate(token string) (string, error) {
	return auth.UsernameFromToken(token, s.jwtSecret)
}

func (s *AccountService) session(username string) (*Session, error) {
	token, err := auth.GenerateToken(username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &Session{Username: username, Token: token}, nil
}
