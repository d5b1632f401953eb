package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/linguacards/internal/common"
	srvmodels "github.com/dmitrijs2005/linguacards/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectAccountQuery = `(?s)^SELECT\s+username,\s*password_hash,\s*data,\s*version\s+FROM\s+accounts\s+WHERE\s+account_key\s*=\s*\$1\s*$`
	insertAccountQuery = `(?s)^INSERT\s+INTO\s+accounts\s*\(account_key,\s*username,\s*password_hash,\s*data,\s*version\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*1\)\s*ON\s+CONFLICT\s*\(account_key\)\s*DO\s+NOTHING\s*$`
	updateAccountQuery = `(?s)^UPDATE\s+accounts\s+SET\s+password_hash\s*=\s*\$1,\s*data\s*=\s*\$2,\s*version\s*=\s*version\s*\+\s*1,\s*updated_at\s*=\s*NOW\(\)\s+WHERE\s+account_key\s*=\s*\$3\s+AND\s+version\s*=\s*\$4\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestPostgresRepository_Get(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"username", "password_hash", "data", "version"}).
		AddRow("Alice", "hash", []byte(`{"decks":[{"id":"d1","name":"Verbs"}],"cards":[],"studyHistory":[],"userAchievements":[]}`), int64(4))
	mock.ExpectQuery(selectAccountQuery).WithArgs("user:alice").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), " ALICE")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Username)
	assert.EqualValues(t, 4, got.Version)
	require.Len(t, got.Data.Decks, 1)
	assert.Equal(t, "Verbs", got.Data.Decks[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
		wantMsg string
	}{
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectAccountQuery).WithArgs("user:ghost").WillReturnError(sql.ErrNoRows)
			},
			wantErr: common.ErrNotFound,
		},
		{
			name: "db error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectAccountQuery).WithArgs("user:ghost").WillReturnError(errors.New("db down"))
			},
			wantMsg: `db error: .*db down`,
		},
		{
			name: "malformed data",
			setup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"username", "password_hash", "data", "version"}).
					AddRow("ghost", "h", []byte(`{`), int64(1))
				mock.ExpectQuery(selectAccountQuery).WithArgs("user:ghost").WillReturnRows(rows)
			},
			wantErr: common.ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()
			tt.setup(mock)

			_, err := repo.Get(context.Background(), "ghost")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Regexp(t, regexp.MustCompile(tt.wantMsg), err.Error())
			}
		})
	}
}

func TestPostgresRepository_Create(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertAccountQuery).
		WithArgs("user:alice", "Alice", "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	acct := srvmodels.NewAccount("Alice", "hash")
	require.NoError(t, repo.Create(context.Background(), acct))
	assert.EqualValues(t, 1, acct.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateConflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertAccountQuery).
		WithArgs("user:alice", "alice", "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Create(context.Background(), srvmodels.NewAccount("alice", "hash"))
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestPostgresRepository_Update(t *testing.T) {
	tests := []struct {
		name        string
		affected    int64
		wantErr     error
		wantVersion int64
	}{
		{name: "matching version", affected: 1, wantVersion: 3},
		{name: "stale version", affected: 0, wantErr: common.ErrVersionConflict, wantVersion: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(updateAccountQuery).
				WithArgs("hash", sqlmock.AnyArg(), "user:bob", int64(2)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			acct := srvmodels.NewAccount("bob", "hash")
			acct.Version = 2
			err := repo.Update(context.Background(), acct)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantVersion, acct.Version)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_UpdateDBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateAccountQuery).WillReturnError(errors.New("db down"))

	acct := srvmodels.NewAccount("bob", "hash")
	err := repo.Update(context.Background(), acct)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
