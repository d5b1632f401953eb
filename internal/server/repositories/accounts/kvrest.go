package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/server/models"
)

const maxKVErrorBody = 4 << 10

// KVRestRepository talks to a Redis-compatible store over its REST API
// (Upstash, Vercel KV). Each command is posted as a JSON array to the base URL
// with a bearer token; the reply is {"result": ...} or {"error": "..."}.
type KVRestRepository struct {
	url   string
	token string
	http  *http.Client
}

func NewKVRestRepository(url, token string, timeout time.Duration) *KVRestRepository {
	return &KVRestRepository{
		url:   strings.TrimRight(url, "/"),
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
}

type kvReply struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func (r *KVRestRepository) Get(ctx context.Context, username string) (*models.Account, error) {
	var flat []string
	if err := r.command(ctx, &flat, "HGETALL", common.AccountKey(username)); err != nil {
		return nil, err
	}

	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("odd HGETALL reply: %w", common.ErrInvalidPayload)
	}
	fields := make(map[string]string, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		fields[flat[i]] = flat[i+1]
	}
	return fromHash(fields)
}

func (r *KVRestRepository) Create(ctx context.Context, acct *models.Account) error {
	raw, err := encode(acct)
	if err != nil {
		return err
	}

	var created int64
	if err := r.command(ctx, &created, "EVAL", createScript, "1", acct.Key(), string(raw)); err != nil {
		return err
	}
	if created == 0 {
		return common.ErrConflict
	}

	acct.Version = 1
	return nil
}

func (r *KVRestRepository) Update(ctx context.Context, acct *models.Account) error {
	raw, err := encode(acct)
	if err != nil {
		return err
	}

	var n int64
	if err := r.command(ctx, &n, "EVAL", updateScript, "1", acct.Key(), fmt.Sprint(acct.Version), string(raw)); err != nil {
		return err
	}
	if err := updateResult(n); err != nil {
		return err
	}

	acct.Version = n
	return nil
}

func (r *KVRestRepository) command(ctx context.Context, out any, args ...string) error {
	if r.url == "" || r.token == "" {
		return fmt.Errorf("kv rest url or token is not set: %w", common.ErrConfiguration)
	}

	body, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w: %w", common.ErrConfiguration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+r.token)

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: kv: %w", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxKVErrorBody))
		return fmt.Errorf("%w: kv %s: %s", common.ErrRemoteUnavailable, resp.Status, bytes.TrimSpace(msg))
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("kv rejected token: %w", common.ErrConfiguration)
	}

	var reply kvReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("decode kv reply: %w: %w", common.ErrInvalidPayload, err)
	}
	if reply.Error != "" {
		return fmt.Errorf("kv %s: %s: %w", args[0], reply.Error, common.ErrInvalidPayload)
	}
	if len(reply.Result) == 0 || string(reply.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(reply.Result, out); err != nil {
		return fmt.Errorf("decode kv result: %w: %w", common.ErrInvalidPayload, err)
	}
	return nil
}
