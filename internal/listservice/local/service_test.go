package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/listctl/internal/listservice"
	"github.com/thenoetrevino/listctl/internal/models"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// setupTestService creates an in-memory service
func setupTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := Open(context.Background(), ":memory:", nil)
	if err != nil {
		t.Fatalf("Failed to create test service: %v", err)
	}
	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Errorf("Failed to close test service: %v", err)
		}
	})
	return svc
}

func seedList(t *testing.T, svc *Service, sch *models.Schema) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svc.CreateList(ctx, "L1", sch))
	require.NoError(t, svc.AddItem(ctx, models.Item{ID: "I1", ListID: "L1", Fields: []models.Field{
		{ColumnID: "c1", Key: "status", Value: models.SelectValue{Values: []string{"open"}}},
	}}))
	require.NoError(t, svc.AddItem(ctx, models.Item{ID: "I2", ListID: "L1"}))
	require.NoError(t, svc.AddItem(ctx, models.Item{ID: "I3", ListID: "L1"}))
}

// ============================================================================
// TEST CASES
// ============================================================================

var _ listservice.Client = (*Service)(nil)

func TestDescribe(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	seedList(t, svc, &models.Schema{Columns: []models.Column{{ID: "c1", Key: "status", Name: "Status", Type: models.ColumnTypeSelect}}})

	resp, err := svc.Call(context.Background(), listservice.MethodDescribe, map[string]any{"list_id": "L1"})
	require.NoError(t, err)
	cols, ok := resp["schema"].([]any)
	require.True(t, ok)
	require.Len(t, cols, 1)
	assert.Equal(t, "c1", cols[0].(map[string]any)["id"])
}

func TestDescribe_NoSchemaIsUnsupported(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	seedList(t, svc, nil)

	_, err := svc.Call(context.Background(), listservice.MethodDescribe, map[string]any{"list_id": "L1"})
	assert.True(t, listservice.IsMethodUnsupported(err))
}

func TestUnsupportedMethods(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	seedList(t, svc, nil)
	svc.Unsupported[listservice.MethodItemsList] = true

	_, err := svc.ListItems(context.Background(), "L1", 10)
	assert.True(t, listservice.IsMethodUnsupported(err))

	_, err = svc.Call(context.Background(), "slackLists.bogus", nil)
	assert.True(t, listservice.IsMethodUnsupported(err))
}

func TestListItems_Pagination(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	seedList(t, svc, nil)
	ctx := context.Background()

	resp, err := svc.Call(ctx, listservice.MethodItemsList, map[string]any{"list_id": "L1", "limit": 2})
	require.NoError(t, err)
	assert.Len(t, resp["items"], 2)
	meta := resp["response_metadata"].(map[string]any)
	assert.Equal(t, "2", meta["next_cursor"])

	resp, err = svc.Call(ctx, listservice.MethodItemsList, map[string]any{"list_id": "L1", "limit": 2, "cursor": "2"})
	require.NoError(t, err)
	assert.Len(t, resp["items"], 1)
	assert.Nil(t, resp["response_metadata"])

	items, err := svc.ListItems(ctx, "L1", 100)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, models.SelectValue{Values: []string{"open"}}, items[0].Fields[0].Value)
	assert.Equal(t, 3, svc.Calls(listservice.MethodItemsList))
}

func TestListItems_UnknownList(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)

	_, err := svc.ListItems(context.Background(), "nope", 10)
	assert.ErrorIs(t, err, listservice.ErrNotFound)
}

func TestItemInfo_EmbedsMetadata(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	seedList(t, svc, &models.Schema{Columns: []models.Column{{ID: "c1", Key: "status", Type: models.ColumnTypeSelect}}})

	detail, err := listservice.GetItem(context.Background(), svc, "L1", "I1")
	require.NoError(t, err)
	assert.Equal(t, "I1", detail.Item.ID)
	assert.Contains(t, detail.Raw, "list")

	_, err = listservice.GetItem(context.Background(), svc, "L1", "missing")
	assert.ErrorIs(t, err, listservice.ErrNotFound)
}

func TestUpdateItemField(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	seedList(t, svc, nil)
	ctx := context.Background()

	require.NoError(t, listservice.UpdateItemField(ctx, svc, "L1", "I1", models.Field{
		ColumnID: "c1", Value: models.SelectValue{Values: []string{"done"}},
	}))
	require.NoError(t, listservice.UpdateItemField(ctx, svc, "L1", "I1", models.Field{
		ColumnID: "c2", Value: models.CheckboxValue{Checked: true},
	}))

	detail, err := listservice.GetItem(ctx, svc, "L1", "I1")
	require.NoError(t, err)
	require.Len(t, detail.Item.Fields, 2)
	assert.Equal(t, "status", detail.Item.Fields[0].Key)
	assert.Equal(t, models.SelectValue{Values: []string{"done"}}, detail.Item.Fields[0].Value)
	assert.Equal(t, models.CheckboxValue{Checked: true}, detail.Item.Fields[1].Value)
}

func TestLookupUsers(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddUser(ctx, models.User{ID: "U1", Name: "Ada Lovelace", DisplayName: "ada", Email: "ada@example.com"}))
	require.NoError(t, svc.AddUser(ctx, models.User{ID: "U2", Name: "Grace Hopper", DisplayName: "grace", Email: "grace@example.com"}))

	users, err := svc.LookupUsers(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "U1", users[0].ID)
	assert.Equal(t, 1, svc.Calls(listservice.MethodUsersList))
	assert.Equal(t, 1, svc.TotalCalls())

	svc.ResetCalls()
	assert.Equal(t, 0, svc.TotalCalls())
}

func TestAddItem_AssignsID(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.CreateList(ctx, "L1", nil))
	require.NoError(t, svc.AddItem(ctx, models.Item{ListID: "L1"}))
	require.NoError(t, svc.AddItem(ctx, models.Item{ListID: "L1"}))

	items, err := svc.ListItems(ctx, "L1", 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Regexp(t, `^Rec[0-9A-F]{12}$`, items[0].ID)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}
