package listservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/listctl/internal/models"
	"go.uber.org/goleak"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// newTestServer serves each method from handlers keyed by method name
func newTestServer(t *testing.T, handlers map[string]func(params map[string]any) (int, any)) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.TrimPrefix(r.URL.Path, "/")
		var params map[string]any
		_ = json.NewDecoder(r.Body).Decode(&params)

		h, ok := handlers[method]
		if !ok {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "unknown_method"})
			return
		}
		status, body := h(params)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, "xoxb-test", nil)
}

// fakeCaller answers items.info from a map of items
type fakeCaller struct {
	items map[string]models.Item
	calls atomic.Int32
}

func (f *fakeCaller) Call(ctx context.Context, method string, params map[string]any) (map[string]any, error) {
	f.calls.Add(1)
	id, _ := params["id"].(string)
	item, ok := f.items[id]
	if !ok {
		return nil, &APIError{Method: method, Code: "item_not_found"}
	}
	var raw map[string]any
	if err := Decode(item, &raw); err != nil {
		return nil, err
	}
	return map[string]any{"ok": true, "item": raw}, nil
}

// ============================================================================
// Error classification
// ============================================================================

func TestIsMethodUnsupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", ErrMethodUnsupported, true},
		{"wrapped sentinel", fmt.Errorf("describe: %w", ErrMethodUnsupported), true},
		{"unknown_method code", &APIError{Method: MethodDescribe, Code: "unknown_method"}, true},
		{"bare 404", &APIError{Method: MethodDescribe, Status: 404}, true},
		{"auth failure", &APIError{Method: MethodDescribe, Code: "invalid_auth"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsMethodUnsupported(tt.err))
		})
	}
}

func TestAPIError_NotFound(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, &APIError{Method: MethodItemsInfo, Code: "item_not_found"}, ErrNotFound)
}

// ============================================================================
// HTTP client
// ============================================================================

func TestHTTPClient_CallEnvelope(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, map[string]func(map[string]any) (int, any){
		MethodDescribe: func(params map[string]any) (int, any) {
			return http.StatusOK, map[string]any{"ok": true, "list_id": params["list_id"]}
		},
		"auth.fail": func(map[string]any) (int, any) {
			return http.StatusOK, map[string]any{"ok": false, "error": "invalid_auth"}
		},
	})

	resp, err := client.Call(context.Background(), MethodDescribe, map[string]any{"list_id": "L1"})
	require.NoError(t, err)
	assert.Equal(t, "L1", resp["list_id"])

	_, err = client.Call(context.Background(), "auth.fail", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_auth", apiErr.Code)
	assert.False(t, IsMethodUnsupported(err))

	_, err = client.Call(context.Background(), "slackLists.nope", nil)
	assert.True(t, IsMethodUnsupported(err))
}

func TestHTTPClient_ListItemsPaginates(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, map[string]func(map[string]any) (int, any){
		MethodItemsList: func(params map[string]any) (int, any) {
			if params["cursor"] == nil {
				return http.StatusOK, map[string]any{
					"ok":                true,
					"items":             []any{map[string]any{"id": "I1", "fields": []any{map[string]any{"key": "status", "select": []any{"open"}}}}},
					"response_metadata": map[string]any{"next_cursor": "page2"},
				}
			}
			return http.StatusOK, map[string]any{
				"ok":    true,
				"items": []any{map[string]any{"id": "I2"}, map[string]any{"id": "I3"}},
			}
		},
	})

	items, err := client.ListItems(context.Background(), "L1", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "I1", items[0].ID)
	assert.Equal(t, "L1", items[0].ListID)
	assert.Equal(t, models.SelectValue{Values: []string{"open"}}, items[0].Fields[0].Value)
	assert.Equal(t, "I2", items[1].ID)
}

func TestHTTPClient_LookupUsers(t *testing.T) {
	t.Parallel()

	client := newTestServer(t, map[string]func(map[string]any) (int, any){
		MethodUsersList: func(map[string]any) (int, any) {
			return http.StatusOK, map[string]any{"ok": true, "members": []any{
				map[string]any{"id": "U1", "name": "ada", "profile": map[string]any{"display_name": "Ada", "real_name": "Ada Lovelace", "email": "ada@example.com"}},
				map[string]any{"id": "U2", "name": "gone", "deleted": true},
			}}
		},
	})

	users, err := client.LookupUsers(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, []models.User{{ID: "U1", Name: "Ada Lovelace", DisplayName: "Ada", Email: "ada@example.com"}}, users)
}

// ============================================================================
// Batch fetch
// ============================================================================

func TestFetchItems_PreservesOrder(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{items: map[string]models.Item{
		"I1": {ID: "I1"},
		"I2": {ID: "I2"},
		"I3": {ID: "I3"},
	}}

	items, err := FetchItems(context.Background(), caller, "L1", []string{"I3", "I1", "I2"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "I3", items[0].ID)
	assert.Equal(t, "I1", items[1].ID)
	assert.Equal(t, "I2", items[2].ID)
	assert.Equal(t, "L1", items[0].ListID)
	assert.EqualValues(t, 3, caller.calls.Load())
}

func TestFetchItems_Error(t *testing.T) {
	t.Parallel()

	caller := &fakeCaller{items: map[string]models.Item{"I1": {ID: "I1"}}}

	_, err := FetchItems(context.Background(), caller, "L1", []string{"I1", "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchItems_NoGoroutineLeak(t *testing.T) {
	// Not parallel: goleak inspects every goroutine in the process
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	caller := &fakeCaller{items: map[string]models.Item{"I1": {ID: "I1"}, "I2": {ID: "I2"}}}

	_, err := FetchItems(context.Background(), caller, "L1", []string{"missing", "I1", "I2", "gone"})
	require.ErrorIs(t, err, ErrNotFound)

	items, err := FetchItems(context.Background(), caller, "L1", []string{"I1", "I2"})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestUpdateItemField(t *testing.T) {
	t.Parallel()

	received := make(chan map[string]any, 1)
	client := newTestServer(t, map[string]func(map[string]any) (int, any){
		MethodItemUpdate: func(params map[string]any) (int, any) {
			received <- params
			return http.StatusOK, map[string]any{"ok": true}
		},
	})

	err := UpdateItemField(context.Background(), client, "L1", "I1", models.Field{
		ColumnID: "c1",
		Value:    models.SelectValue{Values: []string{"done"}},
	})
	require.NoError(t, err)

	got := <-received
	cells, ok := got["cells"].([]any)
	require.True(t, ok)
	require.Len(t, cells, 1)
	cell := cells[0].(map[string]any)
	assert.Equal(t, "I1", cell["row_id"])
	assert.Equal(t, "c1", cell["column_id"])
	assert.Equal(t, []any{"done"}, cell["select"])
}
