package models

// Schema is the ordered set of columns of one list.
// Provisional marks a schema derived from sample inference rather than
// confirmed by the service.
type Schema struct {
	ListID      string   `json:"list_id" yaml:"list_id"`
	Columns     []Column `json:"columns" yaml:"columns"`
	Provisional bool     `json:"provisional,omitempty" yaml:"provisional,omitempty"`
}

// Empty reports whether the schema has no columns
func (s *Schema) Empty() bool {
	return s == nil || len(s.Columns) == 0
}

// User is a candidate returned by the service's user lookup
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}
