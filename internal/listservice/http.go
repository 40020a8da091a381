package listservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/thenoetrevino/listctl/internal/models"
)

const (
	defaultPageSize = 100
	maxUserPages    = 20
)

// HTTPClient talks to the service over its JSON-over-HTTP API.
// Every method is a POST to <BaseURL>/<method>; responses carry an
// {ok, error} envelope.
type HTTPClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	Logger  *slog.Logger
}

// NewHTTPClient creates a client with a bounded request timeout
func NewHTTPClient(baseURL, token string, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Logger:  logger,
	}
}

// Call posts params to method and returns the decoded response
func (c *HTTPClient) Call(ctx context.Context, method string, params map[string]any) (map[string]any, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("%s: encode params: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.Logger.Error("error closing response body", "method", method, "error", err)
		}
	}()

	c.Logger.Debug("service call", "method", method, "status", resp.StatusCode, "elapsed", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", method, err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &APIError{Method: method, Status: resp.StatusCode}
		}
		return nil, fmt.Errorf("%s: decode response: %w", method, err)
	}

	if ok, _ := out["ok"].(bool); !ok {
		code, _ := out["error"].(string)
		apiErr := &APIError{Method: method, Code: code}
		if resp.StatusCode >= 300 {
			apiErr.Status = resp.StatusCode
		}
		return nil, apiErr
	}

	return out, nil
}

// ListItems returns up to limit items, following cursors until the limit is reached
func (c *HTTPClient) ListItems(ctx context.Context, listID string, limit int) ([]models.Item, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	var items []models.Item
	cursor := ""
	for len(items) < limit {
		params := map[string]any{"list_id": listID, "limit": min(limit-len(items), defaultPageSize)}
		if cursor != "" {
			params["cursor"] = cursor
		}

		resp, err := c.Call(ctx, MethodItemsList, params)
		if err != nil {
			return nil, err
		}

		var page []models.Item
		if err := Decode(resp["items"], &page); err != nil {
			return nil, fmt.Errorf("%s: decode items: %w", MethodItemsList, err)
		}
		for i := range page {
			if page[i].ListID == "" {
				page[i].ListID = listID
			}
		}
		items = append(items, page...)

		cursor = nextCursor(resp)
		if cursor == "" || len(page) == 0 {
			break
		}
	}

	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// memberWire is the users.list member shape
type memberWire struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
	Profile struct {
		DisplayName string `json:"display_name"`
		RealName    string `json:"real_name"`
		Email       string `json:"email"`
	} `json:"profile"`
}

// LookupUsers returns the workspace's active users as lookup candidates.
// Matching against the query is left to the caller's policy.
func (c *HTTPClient) LookupUsers(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	cursor := ""
	for page := 0; page < maxUserPages; page++ {
		params := map[string]any{"limit": 200}
		if cursor != "" {
			params["cursor"] = cursor
		}

		resp, err := c.Call(ctx, MethodUsersList, params)
		if err != nil {
			return nil, err
		}

		var members []memberWire
		if err := Decode(resp["members"], &members); err != nil {
			return nil, fmt.Errorf("%s: decode members: %w", MethodUsersList, err)
		}
		for _, m := range members {
			if m.Deleted {
				continue
			}
			name := m.Name
			if m.Profile.RealName != "" {
				name = m.Profile.RealName
			}
			users = append(users, models.User{
				ID:          m.ID,
				Name:        name,
				DisplayName: m.Profile.DisplayName,
				Email:       m.Profile.Email,
			})
		}

		cursor = nextCursor(resp)
		if cursor == "" {
			break
		}
	}

	c.Logger.Debug("user lookup", "query", query, "candidates", len(users))
	return users, nil
}

func nextCursor(resp map[string]any) string {
	meta, _ := resp["response_metadata"].(map[string]any)
	cursor, _ := meta["next_cursor"].(string)
	return cursor
}
