package schema

import (
	"fmt"
	"strings"

	"github.com/thenoetrevino/listctl/internal/models"
)

// Index is a Schema plus derived lookup maps.
// It is built once from a Schema and never mutated; build a new Index when the
// schema changes.
type Index struct {
	schema models.Schema
	byID   map[string]int
	byKey  map[string]int
	byName map[string]int
	byType map[models.ColumnType][]int
}

// NewIndex builds the lookup maps for schema. On key or name collisions the
// earlier column wins, which keeps lookups deterministic.
func NewIndex(schema models.Schema) *Index {
	idx := &Index{
		schema: schema,
		byID:   make(map[string]int, len(schema.Columns)),
		byKey:  make(map[string]int, len(schema.Columns)),
		byName: make(map[string]int, len(schema.Columns)),
		byType: make(map[models.ColumnType][]int),
	}

	for i, col := range schema.Columns {
		if _, dup := idx.byID[col.ID]; !dup {
			idx.byID[col.ID] = i
		}
		if k := strings.ToLower(col.Key); k != "" {
			if _, dup := idx.byKey[k]; !dup {
				idx.byKey[k] = i
			}
		}
		if n := strings.ToLower(col.Name); n != "" {
			if _, dup := idx.byName[n]; !dup {
				idx.byName[n] = i
			}
		}
		idx.byType[col.Type] = append(idx.byType[col.Type], i)
	}

	return idx
}

// Schema returns the indexed schema
func (idx *Index) Schema() models.Schema {
	return idx.schema
}

// ListID returns the list the schema belongs to
func (idx *Index) ListID() string {
	return idx.schema.ListID
}

// Columns returns the columns in schema order
func (idx *Index) Columns() []models.Column {
	return idx.schema.Columns
}

// Provisional reports whether the schema came from inference
func (idx *Index) Provisional() bool {
	return idx.schema.Provisional
}

// Column returns the column with the exact id
func (idx *Index) Column(id string) (models.Column, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return models.Column{}, false
	}
	return idx.schema.Columns[i], true
}

// ResolveColumn matches token against column ids exactly, then keys and names
// case-insensitively, in that order.
func (idx *Index) ResolveColumn(token string) (models.Column, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.Column{}, fmt.Errorf("%w: empty column reference", ErrColumnNotFound)
	}
	if i, ok := idx.byID[token]; ok {
		return idx.schema.Columns[i], nil
	}
	lower := strings.ToLower(token)
	if i, ok := idx.byKey[lower]; ok {
		return idx.schema.Columns[i], nil
	}
	if i, ok := idx.byName[lower]; ok {
		return idx.schema.Columns[i], nil
	}
	return models.Column{}, fmt.Errorf("%w: %q", ErrColumnNotFound, token)
}

// FindColumnByType returns the first column whose type is in types, or nil.
// Zero or several matches are the caller's call.
func (idx *Index) FindColumnByType(types ...models.ColumnType) *models.Column {
	first := -1
	for _, t := range types {
		positions := idx.byType[t]
		if len(positions) > 0 && (first == -1 || positions[0] < first) {
			first = positions[0]
		}
	}
	if first == -1 {
		return nil
	}
	col := idx.schema.Columns[first]
	return &col
}

// ColumnsByType returns every column whose type is in types, in schema order
func (idx *Index) ColumnsByType(types ...models.ColumnType) []models.Column {
	var out []models.Column
	for _, col := range idx.schema.Columns {
		if col.Type.In(types...) {
			out = append(out, col)
		}
	}
	return out
}

// ResolveRoleColumn picks the column playing a role (e.g. "the status select").
// An explicit token always wins. Without one, exactly one column of the role's
// types must exist; several matches require an explicit reference.
func (idx *Index) ResolveRoleColumn(token string, types ...models.ColumnType) (models.Column, error) {
	if strings.TrimSpace(token) != "" {
		return idx.ResolveColumn(token)
	}

	matches := idx.ColumnsByType(types...)
	switch len(matches) {
	case 0:
		return models.Column{}, fmt.Errorf("%w: no column of type %v", ErrColumnNotFound, types)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.DisplayName()
		}
		return models.Column{}, fmt.Errorf("%w: %s", ErrAmbiguousColumn, strings.Join(names, ", "))
	}
}
