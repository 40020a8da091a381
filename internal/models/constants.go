package models

import "strings"

// ============================================================================
// COLUMN TYPE CONSTANTS
// ============================================================================

// ColumnType is the service-side type tag of a list column.
// Unknown tags are kept verbatim so a schema round-trips through the cache.
type ColumnType string

const (
	ColumnTypeText          ColumnType = "text"
	ColumnTypeRichText      ColumnType = "rich_text"
	ColumnTypeSelect        ColumnType = "select"
	ColumnTypeUser          ColumnType = "user"
	ColumnTypeAssignee      ColumnType = "todo_assignee"
	ColumnTypeDate          ColumnType = "date"
	ColumnTypeDueDate       ColumnType = "todo_due_date"
	ColumnTypeRating        ColumnType = "rating"
	ColumnTypePriority      ColumnType = "priority"
	ColumnTypeCheckbox      ColumnType = "checkbox"
	ColumnTypeTodoCompleted ColumnType = "todo_completed"
	ColumnTypeAttachment    ColumnType = "attachment"
	ColumnTypeReference     ColumnType = "reference"
	ColumnTypeLink          ColumnType = "link"
	ColumnTypeMessage       ColumnType = "message"
)

// Column type groups used when a command needs a column by role rather than by name
var (
	UserColumnTypes     = []ColumnType{ColumnTypeUser, ColumnTypeAssignee}
	DateColumnTypes     = []ColumnType{ColumnTypeDate, ColumnTypeDueDate}
	RatingColumnTypes   = []ColumnType{ColumnTypeRating, ColumnTypePriority}
	CheckboxColumnTypes = []ColumnType{ColumnTypeCheckbox, ColumnTypeTodoCompleted}
)

// ============================================================================
// RATING CONSTANTS
// ============================================================================

// DefaultRatingMax is the upper bound for rating/priority values when the column
// does not declare one
const DefaultRatingMax = 5

// ParseColumnType maps a raw type tag to a ColumnType
func ParseColumnType(raw string) ColumnType {
	return ColumnType(raw)
}

// Known reports whether the type is one the field codec can build
func (t ColumnType) Known() bool {
	switch t {
	case ColumnTypeText, ColumnTypeRichText, ColumnTypeSelect,
		ColumnTypeUser, ColumnTypeAssignee, ColumnTypeDate, ColumnTypeDueDate,
		ColumnTypeRating, ColumnTypePriority, ColumnTypeCheckbox, ColumnTypeTodoCompleted,
		ColumnTypeAttachment, ColumnTypeReference, ColumnTypeLink, ColumnTypeMessage:
		return true
	}
	return false
}

// ColumnTypesFor maps a type name to the column types it selects. The role
// names user, date, rating and checkbox select their whole group; any other
// name must be a single known type.
func ColumnTypesFor(name string) ([]ColumnType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "user":
		return UserColumnTypes, true
	case "date":
		return DateColumnTypes, true
	case "rating":
		return RatingColumnTypes, true
	case "checkbox":
		return CheckboxColumnTypes, true
	}

	t := ParseColumnType(name)
	if !t.Known() {
		return nil, false
	}
	return []ColumnType{t}, true
}

// In reports whether t is one of types
func (t ColumnType) In(types ...ColumnType) bool {
	for _, candidate := range types {
		if t == candidate {
			return true
		}
	}
	return false
}
