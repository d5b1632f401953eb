package accounts

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/server/models"
)

// Documents in Redis-compatible stores are hashes with a "doc" field holding
// the encoded account and a "version" field holding its version.
const (
	fieldDoc     = "doc"
	fieldVersion = "version"
)

// createScript stores ARGV[1] at version 1 unless the key exists.
// Returns 1 on success, 0 if the key exists.
const createScript = `
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1], 'doc', ARGV[1], 'version', 1)
return 1
`

// updateScript writes ARGV[2] if the stored version equals ARGV[1].
// Returns the new version, -1 on a version mismatch and -2 if the key is absent.
const updateScript = `
local v = redis.call('HGET', KEYS[1], 'version')
if not v then
  return -2
end
if tonumber(v) ~= tonumber(ARGV[1]) then
  return -1
end
local nextVersion = tonumber(v) + 1
redis.call('HSET', KEYS[1], 'doc', ARGV[2], 'version', nextVersion)
return nextVersion
`

const (
	scriptMismatch = -1
	scriptMissing  = -2
)

func updateResult(n int64) error {
	switch n {
	case scriptMismatch:
		return common.ErrVersionConflict
	case scriptMissing:
		return common.ErrNotFound
	}
	return nil
}

// fromHash builds an account from the fields of its hash. An empty hash means
// the key does not exist.
func fromHash(fields map[string]string) (*models.Account, error) {
	if len(fields) == 0 {
		return nil, common.ErrNotFound
	}

	doc, ok := fields[fieldDoc]
	if !ok {
		return nil, fmt.Errorf("account without document: %w", common.ErrInvalidPayload)
	}
	acct, err := decode([]byte(doc))
	if err != nil {
		return nil, err
	}

	version, err := strconv.ParseInt(fields[fieldVersion], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("account version %q: %w", fields[fieldVersion], common.ErrInvalidPayload)
	}
	acct.Version = version
	return acct, nil
}
