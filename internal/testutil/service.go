package testutil

import (
	"context"
	"testing"

	"github.com/thenoetrevino/listctl/internal/listservice/local"
	"github.com/thenoetrevino/listctl/internal/models"
	"github.com/thenoetrevino/listctl/internal/schemacache"
)

// SetupTestService creates an in-memory local List Service
func SetupTestService(t *testing.T) *local.Service {
	t.Helper()
	svc, err := local.Open(context.Background(), ":memory:", nil)
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

// SetupTestStore creates a schema cache rooted in a temp dir
func SetupTestStore(t *testing.T) *schemacache.Store {
	t.Helper()
	return &schemacache.Store{BaseDir: t.TempDir(), AppDir: "listctl", LegacyAppDir: "slack-lists"}
}

// CreateTestList creates a list with the given schema (nil = describe
// unsupported) and items
func CreateTestList(t *testing.T, svc *local.Service, listID string, sch *models.Schema, items ...models.Item) {
	t.Helper()
	ctx := context.Background()
	if err := svc.CreateList(ctx, listID, sch); err != nil {
		t.Fatalf("Failed to create test list: %v", err)
	}
	for _, item := range items {
		item.ListID = listID
		if err := svc.AddItem(ctx, item); err != nil {
			t.Fatalf("Failed to create test item %s: %v", item.ID, err)
		}
	}
}

// CreateTestUser registers a user for lookups
func CreateTestUser(t *testing.T, svc *local.Service, u models.User) {
	t.Helper()
	if err := svc.AddUser(context.Background(), u); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
}

// StatusSchema is a small confirmed schema used across CLI tests
func StatusSchema() *models.Schema {
	return &models.Schema{Columns: []models.Column{
		{ID: "Col01", Key: "status", Name: "Status", Type: models.ColumnTypeSelect, Options: &models.Options{
			Choices: []models.Choice{
				{Value: "open", Label: "Open"},
				{Value: "done", Label: "Done"},
				{Value: "blocked", Label: "Blocked"},
			},
		}},
		{ID: "Col02", Key: "owner", Name: "Owner", Type: models.ColumnTypeUser},
		{ID: "Col03", Key: "due", Name: "Due Date", Type: models.ColumnTypeDate},
		{ID: "Col04", Key: "done", Name: "Done?", Type: models.ColumnTypeCheckbox},
	}}
}
