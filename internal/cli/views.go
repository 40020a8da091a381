package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/thenoetrevino/listctl/internal/cli/styles"
	"github.com/thenoetrevino/listctl/internal/models"
	"github.com/thenoetrevino/listctl/internal/schema"
)

// ColumnView is the output shape of one column
type ColumnView struct {
	ID      string            `json:"id"`
	Key     string            `json:"key"`
	Name    string            `json:"name"`
	Type    models.ColumnType `json:"type"`
	Choices []models.Choice   `json:"choices,omitempty"`
	Max     int               `json:"max,omitempty"`
}

// NewColumnView converts a column for output
func NewColumnView(col models.Column) ColumnView {
	v := ColumnView{ID: col.ID, Key: col.Key, Name: col.Name, Type: col.Type, Choices: col.Choices()}
	if col.Options != nil {
		v.Max = col.Options.Max
	}
	return v
}

// QuietLines implements Quieter
func (v ColumnView) QuietLines() []string {
	return []string{v.ID}
}

// Render implements Renderer
func (v ColumnView) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", styles.TitleStyle.Render(displayName(v)), styles.RenderTypeChip(v.Type))
	fmt.Fprintf(&b, "  %s %s\n", styles.LabelStyle.Render("id:"), v.ID)
	fmt.Fprintf(&b, "  %s %s", styles.LabelStyle.Render("key:"), v.Key)
	if len(v.Choices) > 0 {
		fmt.Fprintf(&b, "\n  %s %s", styles.LabelStyle.Render("options:"), choiceList(v.Choices))
	}
	if v.Max > 0 {
		fmt.Fprintf(&b, "\n  %s 1-%d", styles.LabelStyle.Render("range:"), v.Max)
	}
	return b.String()
}

// SchemaView is the output shape of a resolved schema
type SchemaView struct {
	ListID      string       `json:"list_id"`
	Provisional bool         `json:"provisional"`
	Columns     []ColumnView `json:"columns"`
}

// NewSchemaView converts an index for output
func NewSchemaView(idx *schema.Index) SchemaView {
	cols := idx.Columns()
	v := SchemaView{ListID: idx.ListID(), Provisional: idx.Provisional(), Columns: make([]ColumnView, len(cols))}
	for i, col := range cols {
		v.Columns[i] = NewColumnView(col)
	}
	return v
}

// QuietLines implements Quieter
func (v SchemaView) QuietLines() []string {
	ids := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		ids[i] = c.ID
	}
	return ids
}

// Render implements Renderer
func (v SchemaView) Render() string {
	var b strings.Builder
	title := fmt.Sprintf("Columns in list '%s'", v.ListID)
	b.WriteString(styles.TitleStyle.Render(title))
	if v.Provisional {
		b.WriteString(" " + styles.WarningStyle.Render("(inferred)"))
	}
	if len(v.Columns) == 0 {
		b.WriteString("\n  " + styles.SubtitleStyle.Render("no columns"))
		return b.String()
	}
	for i, c := range v.Columns {
		fmt.Fprintf(&b, "\n  %d. %s %s %s", i+1, displayName(c), styles.RenderTypeChip(c.Type),
			styles.SubtitleStyle.Render(fmt.Sprintf("(id: %s, key: %s)", c.ID, c.Key)))
		if len(c.Choices) > 0 {
			fmt.Fprintf(&b, "\n     %s %s", styles.LabelStyle.Render("options:"), choiceList(c.Choices))
		}
	}
	return b.String()
}

// ItemView is the output shape of one item's extracted values
type ItemView struct {
	ID     string         `json:"id"`
	Values map[string]any `json:"values"`
}

// ItemsView is the output of item get
type ItemsView struct {
	ListID string     `json:"list_id"`
	Items  []ItemView `json:"items"`
	// Column is set when a single column was requested
	Column string `json:"column,omitempty"`
}

// QuietLines implements Quieter: one item id per line, or one value per line
// when a single column was requested
func (v ItemsView) QuietLines() []string {
	lines := make([]string, len(v.Items))
	for i, item := range v.Items {
		if v.Column == "" {
			lines[i] = item.ID
			continue
		}
		lines[i] = formatValue(item.Values[v.Column])
	}
	return lines
}

// Render implements Renderer
func (v ItemsView) Render() string {
	var b strings.Builder
	for i, item := range v.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		var content strings.Builder
		content.WriteString(styles.TitleStyle.Render("Item " + item.ID))
		keys := make([]string, 0, len(item.Values))
		for k := range item.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) == 0 {
			content.WriteString("\n" + styles.SubtitleStyle.Render("no values"))
		}
		for _, k := range keys {
			fmt.Fprintf(&content, "\n%s %s", styles.LabelStyle.Render(k+":"), styles.ValueStyle.Render(formatValue(item.Values[k])))
		}
		b.WriteString(styles.RenderCard(content.String()))
	}
	return b.String()
}

// FieldView is the output of field build and item set
type FieldView struct {
	ListID  string       `json:"list_id"`
	ItemID  string       `json:"item_id,omitempty"`
	Column  ColumnView   `json:"column"`
	Field   models.Field `json:"field"`
	Value   any          `json:"value"`
	Written bool         `json:"written"`
}

// QuietLines implements Quieter: the compact field payload
func (v FieldView) QuietLines() []string {
	data, err := json.Marshal(v.Field)
	if err != nil {
		return nil
	}
	return []string{string(data)}
}

// Render implements Renderer
func (v FieldView) Render() string {
	payload, err := json.MarshalIndent(v.Field, "", "  ")
	if err != nil {
		payload = []byte(err.Error())
	}
	var b strings.Builder
	if v.Written {
		fmt.Fprintf(&b, "%s Item %s: %s = %s\n", styles.SuccessStyle.Render("✓"), v.ItemID, displayName(v.Column), formatValue(v.Value))
	} else {
		fmt.Fprintf(&b, "%s %s\n", styles.TitleStyle.Render(displayName(v.Column)), styles.RenderTypeChip(v.Column.Type))
	}
	b.Write(payload)
	return b.String()
}

func displayName(c ColumnView) string {
	return models.Column{ID: c.ID, Key: c.Key, Name: c.Name}.DisplayName()
}

func choiceList(choices []models.Choice) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		if c.Label == "" || c.Label == c.Value {
			parts[i] = c.Value
			continue
		}
		parts[i] = fmt.Sprintf("%s (%s)", c.Label, c.Value)
	}
	return strings.Join(parts, ", ")
}

// formatValue renders an extracted value on one line
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case []int:
		parts := make([]string, len(val))
		for i, n := range val {
			parts[i] = fmt.Sprint(n)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
