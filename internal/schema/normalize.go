// Package schema normalizes list schemas, indexes them for lookup, merges
// them, and infers provisional schemas from sample items.
package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/thenoetrevino/listctl/internal/models"
)

// columnListKeys are the object keys a raw representation may carry its columns under
var columnListKeys = []string{"columns", "schema"}

// Normalize converts a remote or file-supplied representation into a canonical Schema.
// raw is decoded JSON (map/slice) or an already-typed models.Schema.
func Normalize(listID string, raw any) (models.Schema, error) {
	switch v := raw.(type) {
	case models.Schema:
		return normalizeTyped(listID, v), nil
	case *models.Schema:
		if v == nil {
			return models.Schema{}, ErrInvalidSchema
		}
		return normalizeTyped(listID, *v), nil
	}

	rawColumns, ok := findColumnList(raw)
	if !ok {
		return models.Schema{}, ErrInvalidSchema
	}

	out := models.Schema{ListID: listID, Columns: make([]models.Column, 0, len(rawColumns))}
	if m, ok := raw.(map[string]any); ok {
		if listID == "" {
			out.ListID = stringField(m, "list_id", "id")
		}
		out.Provisional, _ = m["provisional"].(bool)
	}

	seen := make(map[string]bool, len(rawColumns))
	for _, rc := range rawColumns {
		m, ok := rc.(map[string]any)
		if !ok {
			continue
		}
		col := normalizeColumn(m)
		if col.ID == "" || seen[col.ID] {
			continue
		}
		seen[col.ID] = true
		out.Columns = append(out.Columns, col)
	}
	return out, nil
}

// NormalizeJSON decodes data and normalizes it
func NormalizeJSON(listID string, data []byte) (models.Schema, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Schema{}, fmt.Errorf("decode schema: %w", err)
	}
	return Normalize(listID, raw)
}

// HasColumnList reports whether raw embeds a recognizable column list
func HasColumnList(raw any) bool {
	cols, ok := findColumnList(raw)
	return ok && len(cols) > 0
}

func normalizeTyped(listID string, s models.Schema) models.Schema {
	out := models.Schema{ListID: s.ListID, Provisional: s.Provisional}
	if listID != "" {
		out.ListID = listID
	}
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		c = fillAliases(c)
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out.Columns = append(out.Columns, c)
	}
	return out
}

// findColumnList walks the known envelopes: bare array, {columns}, {schema},
// {list_metadata:{...}}, {list:{list_metadata:{...}}}
func findColumnList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case map[string]any:
		for _, key := range columnListKeys {
			if cols, ok := v[key].([]any); ok {
				return cols, true
			}
		}
		if meta, ok := v["list_metadata"]; ok {
			return findColumnList(meta)
		}
		if list, ok := v["list"]; ok {
			return findColumnList(list)
		}
	}
	return nil, false
}

func normalizeColumn(m map[string]any) models.Column {
	col := models.Column{
		ID:   stringField(m, "id", "column_id"),
		Key:  stringField(m, "key"),
		Name: stringField(m, "name", "title"),
		Type: models.ParseColumnType(strings.ToLower(stringField(m, "type"))),
	}

	if opts, ok := m["options"].(map[string]any); ok {
		col.Options = normalizeOptions(opts)
	} else if choices, ok := m["choices"].([]any); ok {
		col.Options = normalizeOptions(map[string]any{"choices": choices})
	}

	return fillAliases(col)
}

func normalizeOptions(m map[string]any) *models.Options {
	opts := &models.Options{}
	if raw, ok := m["choices"].([]any); ok {
		for _, rc := range raw {
			switch c := rc.(type) {
			case string:
				opts.Choices = append(opts.Choices, models.Choice{Value: c, Label: c})
			case map[string]any:
				choice := models.Choice{
					Value: stringField(c, "value", "id"),
					Label: stringField(c, "label", "name", "text"),
				}
				if choice.Value == "" {
					choice.Value = choice.Label
				}
				if choice.Label == "" {
					choice.Label = choice.Value
				}
				if choice.Value != "" {
					opts.Choices = append(opts.Choices, choice)
				}
			}
		}
	}
	if n, ok := intField(m, "max"); ok {
		opts.Max = n
	}
	if len(opts.Choices) == 0 && opts.Max == 0 {
		return nil
	}
	return opts
}

// fillAliases applies the id <- key <- name fallbacks
func fillAliases(c models.Column) models.Column {
	if c.Key == "" {
		c.Key = c.Name
	}
	if c.ID == "" {
		c.ID = c.Key
	}
	return c
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func intField(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}
