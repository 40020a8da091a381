package codec

import (
	"github.com/thenoetrevino/listctl/internal/models"
	"github.com/thenoetrevino/listctl/internal/schema"
)

// Extract finds the field bound to columnID and projects its canonical value.
// It returns nil when the field is absent or carries nothing projectable.
func Extract(fields []models.Field, columnID string) any {
	item := models.Item{Fields: fields}
	field, ok := item.FieldByColumn(columnID)
	if !ok {
		return nil
	}
	return ExtractField(field)
}

// ExtractAll projects every schema column of item, keyed by column key.
// Columns without a value are omitted.
func ExtractAll(idx *schema.Index, item models.Item) map[string]any {
	out := make(map[string]any)
	for _, col := range idx.Columns() {
		field, ok := item.FieldByColumn(col.ID)
		if !ok && col.Key != "" {
			field, ok = item.FieldByColumn(col.Key)
		}
		if !ok {
			continue
		}
		if v := ExtractField(field); v != nil {
			out[columnLabel(col)] = v
		}
	}
	return out
}

// ExtractField projects one field, preferring the typed payload over the
// generic fallback. Single-element arrays collapse to a scalar.
func ExtractField(field models.Field) any {
	if v := projectTyped(field.Value); v != nil {
		return v
	}
	return field.Fallback
}

func projectTyped(value models.FieldValue) any {
	switch v := value.(type) {
	case models.TextValue:
		return v.Text
	case models.RichTextValue:
		if text, ok := firstTextLeaf(v.Blocks); ok {
			return text
		}
		return nil
	case models.SelectValue:
		return collapse(v.Values)
	case models.UserValue:
		return collapse(v.IDs)
	case models.RatingValue:
		return collapse(v.Values)
	case models.DateValue:
		return collapse(v.Dates)
	case models.MessageValue:
		return collapse(v.Permalinks)
	case models.AttachmentValue:
		return collapse(v.FileIDs)
	case models.ReferenceValue:
		return collapse(v.Refs)
	case models.LinkValue:
		urls := make([]string, len(v.Links))
		for i, l := range v.Links {
			urls[i] = l.URL
		}
		return collapse(urls)
	case models.CheckboxValue:
		return v.Checked
	default:
		return nil
	}
}

// firstTextLeaf walks the tree depth-first and returns the first text run.
// Later runs are not surfaced.
func firstTextLeaf(nodes []models.RichTextNode) (string, bool) {
	for _, n := range nodes {
		if n.Text != "" {
			return n.Text, true
		}
		if text, ok := firstTextLeaf(n.Elements); ok {
			return text, true
		}
	}
	return "", false
}

func collapse[T any](values []T) any {
	switch len(values) {
	case 0:
		return nil
	case 1:
		return values[0]
	default:
		return values
	}
}

func columnLabel(col models.Column) string {
	if col.Key != "" {
		return col.Key
	}
	return col.ID
}
