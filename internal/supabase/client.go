// Package supabase is a thin administrative client for the project's REST
// gateway. It covers the three calls the operational scripts need: named RPC
// invocation, table selects, and raw SQL execution through the admin_exec_sql
// function.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Qefaraki/alqefari-backend-ops/internal/shared/telemetry"
)

const execFunction = "admin_exec_sql"

// Client issues REST and RPC calls against one project with one access key.
type Client struct {
	baseURL    string
	key        string
	httpClient *http.Client
}

// New constructs a client bound to the given project URL and access key.
func New(projectURL, key string, timeout time.Duration) (*Client, error) {
	projectURL = strings.TrimRight(strings.TrimSpace(projectURL), "/")
	if projectURL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("access key is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    projectURL,
		key:        key,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// RPC invokes a named remote procedure with the given arguments and returns
// the raw response body. A nil args map sends an empty JSON object.
func (c *Client) RPC(ctx context.Context, fn string, args map[string]any) (json.RawMessage, error) {
	if args == nil {
		args = map[string]any{}
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshal rpc args: %w", err)
	}
	return c.post(ctx, c.rpcURL(fn), payload)
}

// Select issues a GET against a table through the REST surface. query is the
// raw query string, e.g. "select=id,name&limit=5".
func (c *Client) Select(ctx context.Context, table, query string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if query != "" {
		url += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	return c.do(req)
}

// ExecSQL submits one SQL statement through the admin_exec_sql function.
// If the primary call fails it retries exactly once with a directly built
// request to the same endpoint and equivalent payload. A failure of both
// attempts aborts; nothing already applied is rolled back.
func (c *Client) ExecSQL(ctx context.Context, stmt string) error {
	_, primaryErr := c.RPC(ctx, execFunction, map[string]any{"sql": stmt})
	if primaryErr == nil {
		return nil
	}

	telemetry.Warn("exec_sql primary call failed, trying raw fallback", map[string]any{
		"error": primaryErr.Error(),
	})

	if fallbackErr := c.rawExec(ctx, stmt); fallbackErr != nil {
		return fmt.Errorf("exec failed (%v); fallback: %w", primaryErr, fallbackErr)
	}
	return nil
}

// rawExec is the one-shot fallback: a hand-built POST to the rpc endpoint,
// bypassing the typed request path.
func (c *Client) rawExec(ctx context.Context, stmt string) error {
	body, err := json.Marshal(map[string]string{"sql": stmt})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL(execFunction), bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, payload []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(resp)
		telemetry.Error("gateway request failed", map[string]any{
			"url":    req.URL.Path,
			"status": resp.StatusCode,
		})
		return nil, apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return json.RawMessage(data), nil
}

func (c *Client) rpcURL(fn string) string {
	return fmt.Sprintf("%s/rest/v1/rpc/%s", c.baseURL, fn)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")
}
