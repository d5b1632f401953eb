package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/dbx"
	"github.com/dmitrijs2005/linguacards/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT username, password_hash, data, version FROM accounts
		 WHERE account_key = $1
		 `

	acct := &models.Account{}
	var data []byte
	err := r.db.QueryRowContext(ctx, query, common.AccountKey(username)).
		Scan(&acct.Username, &acct.PasswordHash, &data, &acct.Version)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(data, &acct.Data); err != nil {
		return nil, fmt.Errorf("decode account data: %w: %w", common.ErrInvalidPayload, err)
	}

	return acct, nil
}

func (r *PostgresRepository) Create(ctx context.Context, acct *models.Account) error {
	data, err := json.Marshal(acct.Data)
	if err != nil {
		return fmt.Errorf("encode account data: %w", err)
	}

	query :=
		`INSERT INTO accounts (account_key, username, password_hash, data, version)
		 VALUES ($1, $2, $3, $4, 1)
		 ON CONFLICT (account_key) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, acct.Key(), acct.Username, acct.PasswordHash, data)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrConflict
	}

	acct.Version = 1
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, acct *models.Account) error {
	data, err := json.Marshal(acct.Data)
	if err != nil {
		return fmt.Errorf("encode account data: %w", err)
	}

	query :=
		`UPDATE accounts SET password_hash = $1, data = $2, version = version + 1, updated_at = NOW()
		 WHERE account_key = $3 AND version = $4
		 `

	res, err := r.db.ExecContext(ctx, query, acct.PasswordHash, data, acct.Key(), acct.Version)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrVersionConflict
	}

	acct.Version++
	return nil
}
