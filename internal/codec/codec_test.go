package codec

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/listctl/internal/models"
	"github.com/thenoetrevino/listctl/internal/schema"
	"github.com/thenoetrevino/listctl/internal/user"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type fakeDirectory struct {
	users []models.User
	calls int
	err   error
}

func (f *fakeDirectory) LookupUsers(ctx context.Context, query string) ([]models.User, error) {
	f.calls++
	return f.users, f.err
}

func statusColumn() models.Column {
	return models.Column{
		ID:   "c1",
		Key:  "status",
		Name: "Status",
		Type: models.ColumnTypeSelect,
		Options: &models.Options{Choices: []models.Choice{
			{Value: "open", Label: "Open"},
			{Value: "done", Label: "Done"},
			{Value: "blocked", Label: "Blocked"},
		}},
	}
}

func newBuilder(dir *fakeDirectory) *Builder {
	b := &Builder{UserPolicy: user.PolicyFirst}
	if dir != nil {
		b.Users = dir
	}
	return b
}

// ============================================================================
// BUILD
// ============================================================================

func TestBuild_SelectByLabel(t *testing.T) {
	t.Parallel()
	field, err := newBuilder(nil).Build(context.Background(), statusColumn(), "Done, Blocked")
	require.NoError(t, err)
	assert.Equal(t, "c1", field.ColumnID)
	assert.Equal(t, "status", field.Key)
	assert.Equal(t, models.SelectValue{Values: []string{"done", "blocked"}}, field.Value)
}

func TestBuild_SelectUnknownOption(t *testing.T) {
	t.Parallel()
	_, err := newBuilder(nil).Build(context.Background(), statusColumn(), "open, Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.True(t, IsValidation(err))

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Nope", fe.Input)
	assert.Equal(t, "Status", fe.Column)
}

func TestResolveSelectValues_DedupesAndSkipsBlanks(t *testing.T) {
	t.Parallel()
	values, err := ResolveSelectValues(statusColumn(), "OPEN, ,open,done")
	require.NoError(t, err)
	assert.Equal(t, []string{"open", "done"}, values)
}

func TestBuild_Checkbox(t *testing.T) {
	t.Parallel()
	col := models.Column{ID: "c2", Key: "done", Type: models.ColumnTypeCheckbox}
	tests := []struct {
		input string
		want  bool
	}{
		{"YES", true},
		{"completed", true},
		{" 1 ", true},
		{"true", true},
		{"maybe", false},
		{"", false},
		{"no", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			field, err := newBuilder(nil).Build(context.Background(), col, tt.input)
			require.NoError(t, err)
			assert.Equal(t, models.CheckboxValue{Checked: tt.want}, field.Value)
		})
	}
}

func TestBuild_Date(t *testing.T) {
	t.Parallel()
	col := models.Column{ID: "c3", Key: "due", Type: models.ColumnTypeDueDate}
	b := newBuilder(nil)

	field, err := b.Build(context.Background(), col, " 2024-03-09 ")
	require.NoError(t, err)
	assert.Equal(t, models.DateValue{Dates: []string{"2024-03-09"}}, field.Value)

	for _, bad := range []string{"03/09/2024", "2024-13-01", "tomorrow"} {
		_, err := b.Build(context.Background(), col, bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestBuild_Rating(t *testing.T) {
	t.Parallel()
	b := newBuilder(nil)
	col := models.Column{ID: "c4", Key: "stars", Type: models.ColumnTypeRating}

	field, err := b.Build(context.Background(), col, "5")
	require.NoError(t, err)
	assert.Equal(t, models.RatingValue{Values: []int{5}}, field.Value)

	for _, bad := range []string{"0", "6", "2.5", "high"} {
		_, err := b.Build(context.Background(), col, bad)
		assert.ErrorIs(t, err, ErrInvalidValue, bad)
	}

	col.Options = &models.Options{Max: 10}
	field, err = b.Build(context.Background(), col, "8")
	require.NoError(t, err)
	assert.Equal(t, models.RatingValue{Values: []int{8}}, field.Value)
}

func TestBuild_UsersByIDSkipLookup(t *testing.T) {
	t.Parallel()
	dir := &fakeDirectory{}
	col := models.Column{ID: "c5", Key: "owner", Type: models.ColumnTypeUser}

	field, err := newBuilder(dir).Build(context.Background(), col, "U12345678, id:legacy")
	require.NoError(t, err)
	assert.Equal(t, models.UserValue{IDs: []string{"U12345678", "legacy"}}, field.Value)
	assert.Equal(t, 0, dir.calls)
}

func TestBuild_UsersByName(t *testing.T) {
	t.Parallel()
	dir := &fakeDirectory{users: []models.User{
		{ID: "U1", Name: "Ada Lovelace", DisplayName: "ada", Email: "ada@example.com"},
		{ID: "U2", Name: "Grace Hopper", DisplayName: "grace", Email: "grace@example.com"},
	}}
	col := models.Column{ID: "c5", Key: "owner", Type: models.ColumnTypeAssignee}

	field, err := newBuilder(dir).Build(context.Background(), col, "@grace, ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserValue{IDs: []string{"U2", "U1"}}, field.Value)
	assert.Equal(t, 1, dir.calls)

	_, err = newBuilder(dir).Build(context.Background(), col, "linus")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestBuild_UsersStrictAmbiguous(t *testing.T) {
	t.Parallel()
	dir := &fakeDirectory{users: []models.User{
		{ID: "U1", Name: "Sam"},
		{ID: "U2", Name: "Sam"},
	}}
	col := models.Column{ID: "c5", Key: "owner", Type: models.ColumnTypeUser}

	field, err := newBuilder(dir).Build(context.Background(), col, "sam")
	require.NoError(t, err)
	assert.Equal(t, models.UserValue{IDs: []string{"U1"}}, field.Value)

	strict := &Builder{Users: dir, UserPolicy: user.PolicyStrict}
	_, err = strict.Build(context.Background(), col, "sam")
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestBuild_UsersLookupFailurePropagates(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	dir := &fakeDirectory{err: boom}
	col := models.Column{ID: "c5", Type: models.ColumnTypeUser}

	_, err := newBuilder(dir).Build(context.Background(), col, "ada")
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsValidation(err))
}

func TestBuild_LinksAndRefs(t *testing.T) {
	t.Parallel()
	b := newBuilder(nil)
	ctx := context.Background()

	field, err := b.Build(ctx, models.Column{ID: "c6", Type: models.ColumnTypeLink}, "https://example.com | Example")
	require.NoError(t, err)
	assert.Equal(t, models.LinkValue{Links: []models.Link{{URL: "https://example.com", Label: "Example"}}}, field.Value)

	field, err = b.Build(ctx, models.Column{ID: "c7", Type: models.ColumnTypeAttachment}, "F123|report.pdf")
	require.NoError(t, err)
	assert.Equal(t, models.AttachmentValue{FileIDs: []string{"F123"}}, field.Value)

	field, err = b.Build(ctx, models.Column{ID: "c8", Type: models.ColumnTypeMessage}, "https://chat.example/p1")
	require.NoError(t, err)
	assert.Equal(t, models.MessageValue{Permalinks: []string{"https://chat.example/p1"}}, field.Value)
}

func TestBuild_EmptyInputClearsMultiValuedColumns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  models.ColumnType
		raw  string
		want models.FieldValue
		wire string
	}{
		{"link", models.ColumnTypeLink, "", models.LinkValue{Links: []models.Link{}}, `"link":[]`},
		{"link blank", models.ColumnTypeLink, "   ", models.LinkValue{Links: []models.Link{}}, `"link":[]`},
		{"link label only", models.ColumnTypeLink, " | Docs", models.LinkValue{Links: []models.Link{}}, `"link":[]`},
		{"attachment", models.ColumnTypeAttachment, "", models.AttachmentValue{FileIDs: []string{}}, `"attachment":[]`},
		{"reference", models.ColumnTypeReference, "", models.ReferenceValue{Refs: []string{}}, `"reference":[]`},
		{"message", models.ColumnTypeMessage, "", models.MessageValue{Permalinks: []string{}}, `"message":[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			field, err := newBuilder(nil).Build(context.Background(), models.Column{ID: "c1", Type: tt.typ}, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, field.Value)

			data, err := json.Marshal(field)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.wire)
			assert.NotContains(t, string(data), "original_url")
		})
	}
}

func TestBuild_UnsupportedType(t *testing.T) {
	t.Parallel()
	_, err := newBuilder(nil).Build(context.Background(), models.Column{ID: "c9", Type: "formula"}, "x")
	assert.ErrorIs(t, err, ErrUnsupportedColumnType)
}

// ============================================================================
// EXTRACT
// ============================================================================

func TestExtractField(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		field models.Field
		want  any
	}{
		{"single select collapses", models.Field{Value: models.SelectValue{Values: []string{"open"}}}, "open"},
		{"multi select stays array", models.Field{Value: models.SelectValue{Values: []string{"a", "b"}}}, []string{"a", "b"}},
		{"rating", models.Field{Value: models.RatingValue{Values: []int{3}}}, 3},
		{"checkbox false", models.Field{Value: models.CheckboxValue{}}, false},
		{"typed beats fallback", models.Field{Value: models.TextValue{Text: "typed"}, Fallback: "loose"}, "typed"},
		{"fallback only", models.Field{Fallback: "loose"}, "loose"},
		{"empty typed uses fallback", models.Field{Value: models.UserValue{}, Fallback: "U9"}, "U9"},
		{"nothing", models.Field{}, nil},
		{"link url", models.Field{Value: models.LinkValue{Links: []models.Link{{URL: "https://x"}}}}, "https://x"},
		{"rich text first leaf", models.Field{Value: models.RichTextValue{Blocks: []models.RichTextNode{
			{Type: "rich_text", Elements: []models.RichTextNode{
				{Type: "rich_text_section", Elements: []models.RichTextNode{
					{Type: "text", Text: "first"},
					{Type: "text", Text: "second"},
				}},
			}},
		}}}, "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractField(tt.field))
		})
	}
}

func TestExtract_MissingField(t *testing.T) {
	t.Parallel()
	fields := []models.Field{{ColumnID: "c1", Value: models.TextValue{Text: "x"}}}
	assert.Nil(t, Extract(fields, "c2"))
	assert.Equal(t, "x", Extract(fields, "c1"))
}

func TestRoundTrip_LabelToCanonicalValue(t *testing.T) {
	t.Parallel()
	col := statusColumn()
	field, err := newBuilder(nil).Build(context.Background(), col, "Blocked")
	require.NoError(t, err)
	assert.Equal(t, "blocked", Extract([]models.Field{field}, col.ID))
}

func TestExtractAll(t *testing.T) {
	t.Parallel()
	idx := schema.NewIndex(models.Schema{ListID: "L1", Columns: []models.Column{
		statusColumn(),
		{ID: "c2", Key: "owner", Type: models.ColumnTypeUser},
		{ID: "c3", Key: "notes", Type: models.ColumnTypeText},
	}})
	item := models.Item{ID: "I1", Fields: []models.Field{
		{ColumnID: "c1", Value: models.SelectValue{Values: []string{"open"}}},
		{Key: "owner", Value: models.UserValue{IDs: []string{"U1"}}},
	}}

	assert.Equal(t, map[string]any{"status": "open", "owner": "U1"}, ExtractAll(idx, item))
}
