package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/filex"
	"github.com/dmitrijs2005/linguacards/internal/server/models"
)

// MemoryRepository keeps encoded documents in a map. With a non-empty path
// the map is loaded on start and rewritten after every change, which is
// enough for local development without a database.
type MemoryRepository struct {
	mu   sync.Mutex
	docs map[string][]byte
	path string
}

func NewMemoryRepository(path string) (*MemoryRepository, error) {
	r := &MemoryRepository{docs: make(map[string][]byte), path: path}
	if path == "" {
		return r, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}

	var stored map[string]json.RawMessage
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode accounts file: %w: %w", common.ErrInvalidPayload, err)
	}
	for k, v := range stored {
		r.docs[k] = v
	}
	return r, nil
}

func (r *MemoryRepository) Get(ctx context.Context, username string) (*models.Account, error) {
	r.mu.Lock()
	raw, ok := r.docs[common.AccountKey(username)]
	r.mu.Unlock()

	if !ok {
		return nil, common.ErrNotFound
	}
	return decode(raw)
}

func (r *MemoryRepository) Create(ctx context.Context, acct *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := acct.Key()
	if _, ok := r.docs[key]; ok {
		return common.ErrConflict
	}

	acct.Version = 1
	raw, err := encode(acct)
	if err != nil {
		return err
	}
	r.docs[key] = raw
	if err := r.persist(); err != nil {
		delete(r.docs, key)
		return err
	}
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, acct *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := acct.Key()
	current, ok := r.docs[key]
	if !ok {
		return common.ErrNotFound
	}
	stored, err := decode(current)
	if err != nil {
		return err
	}
	if stored.Version != acct.Version {
		return common.ErrVersionConflict
	}

	next := *acct
	next.Version++
	raw, err := encode(&next)
	if err != nil {
		return err
	}
	r.docs[key] = raw
	if err := r.persist(); err != nil {
		r.docs[key] = current
		return err
	}
	acct.Version = next.Version
	return nil
}

// persist must be called with mu held.
func (r *MemoryRepository) persist() error {
	if r.path == "" {
		return nil
	}

	out := make(map[string]json.RawMessage, len(r.docs))
	for k, v := range r.docs {
		out[k] = v
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode accounts file: %w", err)
	}

	if err := filex.WriteFileAtomic(r.path, raw, 0o600); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorageUnavailable, err)
	}
	return nil
}
