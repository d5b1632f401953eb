package accounts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/server/models"
	goredis "github.com/redis/go-redis/v9"
)

type RedisRepository struct {
	rdb    goredis.UniversalClient
	create *goredis.Script
	update *goredis.Script
}

func NewRedisRepository(rdb goredis.UniversalClient) *RedisRepository {
	return &RedisRepository{
		rdb:    rdb,
		create: goredis.NewScript(createScript),
		update: goredis.NewScript(updateScript),
	}
}

func (r *RedisRepository) Get(ctx context.Context, username string) (*models.Account, error) {
	fields, err := r.rdb.HGetAll(ctx, common.AccountKey(username)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: redis: %w", common.ErrRemoteUnavailable, err)
	}
	return fromHash(fields)
}

func (r *RedisRepository) Create(ctx context.Context, acct *models.Account) error {
	raw, err := encode(acct)
	if err != nil {
		return err
	}

	created, err := r.create.Run(ctx, r.rdb, []string{acct.Key()}, raw).Int64()
	if err != nil {
		return fmt.Errorf("%w: redis: %w", common.ErrRemoteUnavailable, err)
	}
	if created == 0 {
		return common.ErrConflict
	}

	acct.Version = 1
	return nil
}

func (r *RedisRepository) Update(ctx context.Context, acct *models.Account) error {
	raw, err := encode(acct)
	if err != nil {
		return err
	}

	n, err := r.update.Run(ctx, r.rdb, []string{acct.Key()}, acct.Version, raw).Int64()
	if err != nil {
		return fmt.Errorf("%w: redis: %w", common.ErrRemoteUnavailable, err)
	}
	if err := updateResult(n); err != nil {
		return err
	}

	acct.Version = n
	return nil
}
