package schema

import (
	"fmt"

	"github.com/thenoetrevino/listctl/internal/models"
)

// InferFromItems derives a provisional schema from the field shapes of sample items.
//
// A column is keyed by the field's key, else its column id, else a positional
// placeholder. The first occurrence of a key fixes its position and type.
func InferFromItems(listID string, items []models.Item) models.Schema {
	out := models.Schema{ListID: listID, Provisional: true}
	seen := make(map[string]bool)
	seenID := make(map[string]bool)

	for _, item := range items {
		for pos, field := range item.Fields {
			key := field.Key
			if key == "" {
				key = field.ColumnID
			}
			if key == "" {
				key = fmt.Sprintf("field_%d", pos+1)
			}
			id := field.ColumnID
			if id == "" {
				id = key
			}
			if seen[key] || seenID[id] {
				continue
			}
			seen[key] = true
			seenID[id] = true

			out.Columns = append(out.Columns, models.Column{
				ID:   id,
				Key:  key,
				Name: key,
				Type: GuessType(field),
			})
		}
	}

	return out
}

// GuessType maps the populated variant of a field to a column type.
// A field carrying only the generic fallback value is treated as text.
func GuessType(field models.Field) models.ColumnType {
	switch field.Value.(type) {
	case models.SelectValue:
		return models.ColumnTypeSelect
	case models.UserValue:
		return models.ColumnTypeUser
	case models.RatingValue:
		return models.ColumnTypeRating
	case models.DateValue:
		return models.ColumnTypeDate
	case models.CheckboxValue:
		return models.ColumnTypeCheckbox
	case models.MessageValue:
		return models.ColumnTypeMessage
	case models.AttachmentValue:
		return models.ColumnTypeAttachment
	case models.LinkValue:
		return models.ColumnTypeLink
	case models.ReferenceValue:
		return models.ColumnTypeReference
	case models.RichTextValue:
		return models.ColumnTypeRichText
	default:
		return models.ColumnTypeText
	}
}
