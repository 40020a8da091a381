package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/listctl/internal/models"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func statusSchema() models.Schema {
	return models.Schema{
		ListID: "L1",
		Columns: []models.Column{
			{ID: "c1", Key: "Status", Name: "State", Type: models.ColumnTypeSelect, Options: &models.Options{
				Choices: []models.Choice{{Value: "done", Label: "Done"}, {Value: "blocked", Label: "Blocked"}},
			}},
			{ID: "c2", Key: "owner", Name: "Owner", Type: models.ColumnTypeUser},
			{ID: "c3", Key: "due", Name: "Due Date", Type: models.ColumnTypeDueDate},
		},
	}
}

// ============================================================================
// Normalize
// ============================================================================

func TestNormalize_Envelopes(t *testing.T) {
	t.Parallel()

	column := map[string]any{"id": "c1", "key": "status", "name": "Status", "type": "select",
		"options": map[string]any{"choices": []any{
			map[string]any{"value": "open", "label": "Open"},
			map[string]any{"id": "closed", "name": "Closed"},
		}},
	}
	want := []models.Column{{
		ID: "c1", Key: "status", Name: "Status", Type: models.ColumnTypeSelect,
		Options: &models.Options{Choices: []models.Choice{{Value: "open", Label: "Open"}, {Value: "closed", Label: "Closed"}}},
	}}

	tests := []struct {
		name string
		raw  any
	}{
		{"bare array", []any{column}},
		{"columns key", map[string]any{"columns": []any{column}}},
		{"schema key", map[string]any{"schema": []any{column}}},
		{"list metadata", map[string]any{"list_metadata": map[string]any{"schema": []any{column}}}},
		{"nested list", map[string]any{"ok": true, "list": map[string]any{"list_metadata": map[string]any{"schema": []any{column}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Normalize("L1", tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "L1", got.ListID)
			if diff := cmp.Diff(want, got.Columns); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_AliasesAndDuplicates(t *testing.T) {
	t.Parallel()

	raw := map[string]any{"columns": []any{
		map[string]any{"name": "Notes", "type": "TEXT"},
		map[string]any{"id": "Notes", "type": "rich_text"},
		map[string]any{"type": "text"},
		"garbage",
	}}

	got, err := Normalize("L1", raw)
	require.NoError(t, err)
	require.Len(t, got.Columns, 1)
	assert.Equal(t, models.Column{ID: "Notes", Key: "Notes", Name: "Notes", Type: models.ColumnTypeText}, got.Columns[0])
}

func TestNormalize_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Normalize("L1", map[string]any{"ok": true})
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = Normalize("L1", "nope")
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestNormalizeJSON(t *testing.T) {
	t.Parallel()

	got, err := NormalizeJSON("", []byte(`{"list_id":"L9","columns":[{"id":"c1","type":"rating","options":{"max":10}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "L9", got.ListID)
	require.Len(t, got.Columns, 1)
	assert.Equal(t, 10, got.Columns[0].RatingMax(models.DefaultRatingMax))
}

// ============================================================================
// Index
// ============================================================================

func TestResolveColumn_Order(t *testing.T) {
	t.Parallel()
	idx := NewIndex(statusSchema())

	tests := []struct {
		token string
		want  string
	}{
		{"c1", "c1"},
		{"status", "c1"},
		{"STATE", "c1"},
		{"  Owner ", "c2"},
		{"due date", "c3"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()
			col, err := idx.ResolveColumn(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, col.ID)
		})
	}
}

func TestResolveColumn_IDBeatsKeyOfAnotherColumn(t *testing.T) {
	t.Parallel()

	idx := NewIndex(models.Schema{Columns: []models.Column{
		{ID: "a", Key: "b", Type: models.ColumnTypeText},
		{ID: "b", Key: "x", Type: models.ColumnTypeText},
	}})

	col, err := idx.ResolveColumn("b")
	require.NoError(t, err)
	assert.Equal(t, "b", col.ID)
}

func TestResolveColumn_NotFound(t *testing.T) {
	t.Parallel()
	idx := NewIndex(statusSchema())

	_, err := idx.ResolveColumn("priority")
	assert.True(t, errors.Is(err, ErrColumnNotFound))

	_, err = idx.ResolveColumn("")
	assert.True(t, errors.Is(err, ErrColumnNotFound))
}

func TestFindColumnByType(t *testing.T) {
	t.Parallel()
	idx := NewIndex(statusSchema())

	col := idx.FindColumnByType(models.DateColumnTypes...)
	require.NotNil(t, col)
	assert.Equal(t, "c3", col.ID)

	col = idx.FindColumnByType(models.ColumnTypeAssignee, models.ColumnTypeUser)
	require.NotNil(t, col)
	assert.Equal(t, "c2", col.ID)

	assert.Nil(t, idx.FindColumnByType(models.ColumnTypeRating))
}

func TestResolveRoleColumn(t *testing.T) {
	t.Parallel()

	s := statusSchema()
	s.Columns = append(s.Columns, models.Column{ID: "c4", Key: "team", Name: "Team", Type: models.ColumnTypeSelect})
	idx := NewIndex(s)

	_, err := idx.ResolveRoleColumn("", models.ColumnTypeSelect)
	assert.ErrorIs(t, err, ErrAmbiguousColumn)

	col, err := idx.ResolveRoleColumn("team", models.ColumnTypeSelect)
	require.NoError(t, err)
	assert.Equal(t, "c4", col.ID)

	col, err = idx.ResolveRoleColumn("", models.UserColumnTypes...)
	require.NoError(t, err)
	assert.Equal(t, "c2", col.ID)

	_, err = idx.ResolveRoleColumn("", models.ColumnTypeLink)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

// ============================================================================
// Merge
// ============================================================================

func TestMerge_ExistingWins(t *testing.T) {
	t.Parallel()

	existing := statusSchema()
	candidate := models.Schema{ListID: "L1", Provisional: true, Columns: []models.Column{
		{ID: "c1", Key: "status", Name: "status", Type: models.ColumnTypeText},
		{ID: "c9", Key: "notes", Name: "notes", Type: models.ColumnTypeText},
	}}

	merged := Merge(&existing, candidate)

	require.Len(t, merged.Columns, 4)
	assert.Equal(t, existing.Columns[0], merged.Columns[0])
	assert.Equal(t, models.ColumnTypeSelect, merged.Columns[0].Type)
	assert.Equal(t, "c9", merged.Columns[3].ID)
	assert.False(t, merged.Provisional)
}

func TestMerge_Idempotent(t *testing.T) {
	t.Parallel()

	a := statusSchema()
	b := models.Schema{ListID: "L1", Columns: []models.Column{
		{ID: "c2", Key: "owner", Type: models.ColumnTypeText},
		{ID: "c5", Key: "link", Type: models.ColumnTypeLink},
	}}

	once := Merge(&a, b)
	twice := Merge(&a, once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("merge not idempotent (-once +twice):\n%s", diff)
	}
}

func TestMerge_KeyOnlyColumnsMatchByKey(t *testing.T) {
	t.Parallel()

	existing := statusSchema()
	// Inferred from fields that carried only a key: id falls back to the key
	candidate := InferFromItems("L1", []models.Item{{ID: "I1", Fields: []models.Field{
		{Key: "status", Value: models.SelectValue{Values: []string{"open"}}},
		{Key: "OWNER", Value: models.UserValue{IDs: []string{"U1"}}},
		{Key: "notes", Value: models.TextValue{Text: "n"}},
	}}})

	merged := Merge(&existing, candidate)

	ids := make([]string, len(merged.Columns))
	for i, c := range merged.Columns {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"c1", "c2", "c3", "notes"}, ids)
	assert.Equal(t, existing.Columns[0], merged.Columns[0])

	col, err := NewIndex(merged).ResolveRoleColumn("", models.ColumnTypeSelect)
	require.NoError(t, err)
	assert.Equal(t, "c1", col.ID)

	twice := Merge(&merged, candidate)
	if diff := cmp.Diff(merged, twice); diff != "" {
		t.Errorf("key merge not idempotent (-once +twice):\n%s", diff)
	}
}

func TestMerge_NilExisting(t *testing.T) {
	t.Parallel()

	candidate := models.Schema{ListID: "L1", Provisional: true, Columns: []models.Column{{ID: "c1", Type: models.ColumnTypeText}}}
	merged := Merge(nil, candidate)
	assert.Equal(t, candidate, merged)

	merged.Columns[0].Type = models.ColumnTypeSelect
	assert.Equal(t, models.ColumnTypeText, candidate.Columns[0].Type)
}

// ============================================================================
// Inference
// ============================================================================

func TestInferFromItems(t *testing.T) {
	t.Parallel()

	items := []models.Item{
		{ID: "I1", Fields: []models.Field{
			{Key: "status", Value: models.SelectValue{Values: []string{"open"}}},
			{Key: "owner", Value: models.UserValue{IDs: []string{"U1"}}},
			{Value: models.DateValue{Dates: []string{"2024-01-02"}}},
		}},
		{ID: "I2", Fields: []models.Field{
			{Key: "status", Value: models.TextValue{Text: "open"}},
			{ColumnID: "Col7", Fallback: "x"},
		}},
	}

	got := InferFromItems("L1", items)

	assert.True(t, got.Provisional)
	want := []models.Column{
		{ID: "status", Key: "status", Name: "status", Type: models.ColumnTypeSelect},
		{ID: "owner", Key: "owner", Name: "owner", Type: models.ColumnTypeUser},
		{ID: "field_3", Key: "field_3", Name: "field_3", Type: models.ColumnTypeDate},
		{ID: "Col7", Key: "Col7", Name: "Col7", Type: models.ColumnTypeText},
	}
	if diff := cmp.Diff(want, got.Columns); diff != "" {
		t.Errorf("inferred columns mismatch (-want +got):\n%s", diff)
	}
}

func TestInferFromItems_Empty(t *testing.T) {
	t.Parallel()

	got := InferFromItems("L1", nil)
	assert.True(t, got.Empty())
}
