package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/linguacards/internal/common"
	"github.com/dmitrijs2005/linguacards/internal/models"
)

const (
	proxyPath      = "/api/proxy"
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10
)

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient returns a client for the server at baseURL. A zero timeout
// selects a default.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type credentials struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Message  string `json:"message"`
	Username string `json:"username,omitempty"`
	Token    string `json:"token"`
}

type syncRequest struct {
	Action   string           `json:"action"`
	Username string           `json:"username"`
	Data     *models.SyncData `json:"data,omitempty"`
}

type syncResponse struct {
	Data *models.SyncData `json:"data"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var out struct {
		Message string `json:"message"`
	}
	return c.call(ctx, map[string]string{"action": common.ActionPing}, false, &out)
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) (string, error) {
	var out authResponse
	if err := c.call(ctx, credentials{Action: common.ActionRegister, Username: username, Password: password}, false, &out); err != nil {
		return "", err
	}
	c.SetToken(out.Token)
	return out.Token, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var out authResponse
	if err := c.call(ctx, credentials{Action: common.ActionLogin, Username: username, Password: password}, false, &out); err != nil {
		return "", err
	}
	c.SetToken(out.Token)
	return out.Token, nil
}

func (c *HTTPClient) Load(ctx context.Context, username string) (*models.SyncData, error) {
	var out syncResponse
	if err := c.call(ctx, syncRequest{Action: common.ActionLoad, Username: username}, true, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) Merge(ctx context.Context, username string, data models.SyncData) (*models.SyncData, error) {
	var out syncResponse
	if err := c.call(ctx, syncRequest{Action: common.ActionMerge, Username: username, Data: &data}, true, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, fmt.Errorf("merge returned no data: %w", common.ErrInvalidPayload)
	}
	return out.Data, nil
}

func (c *HTTPClient) call(ctx context.Context, payload any, authorized bool, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("server url is not set: %w", common.ErrConfiguration)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+proxyPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w: %w", common.ErrConfiguration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		if token := c.currentToken(); token != "" {
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w: %w", common.ErrInvalidPayload, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var e errorResponse
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &e) == nil {
		if e.Error != "" {
			msg = e.Error
		} else if e.Message != "" {
			msg = e.Message
		}
	}
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("%s: %w", msg, mapStatus(resp.StatusCode))
}

func mapStatus(code int) error {
	switch {
	case code == http.StatusBadRequest:
		return common.ErrInvalidPayload
	case code == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case code == http.StatusNotFound:
		return common.ErrNotFound
	case code == http.StatusConflict:
		return common.ErrConflict
	case code >= 500:
		return common.ErrRemoteUnavailable
	default:
		return common.ErrInvalidPayload
	}
}
