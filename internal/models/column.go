package models

// Choice is one entry of a select column's option set
type Choice struct {
	Value string `json:"value" yaml:"value"` // Canonical value stored by the service
	Label string `json:"label" yaml:"label"` // Human-facing label
}

// Options holds the type-specific configuration of a column
type Options struct {
	Choices []Choice `json:"choices,omitempty" yaml:"choices,omitempty"`
	Max     int      `json:"max,omitempty" yaml:"max,omitempty"` // Upper bound for rating/priority (0 = default)
}

// Column is a typed field definition within a list's schema.
// ID is authoritative; Key and Name are aliases matched case-insensitively.
type Column struct {
	ID      string     `json:"id" yaml:"id"`
	Key     string     `json:"key" yaml:"key"`
	Name    string     `json:"name" yaml:"name"`
	Type    ColumnType `json:"type" yaml:"type"`
	Options *Options   `json:"options,omitempty" yaml:"options,omitempty"`
}

// Choices returns the column's option set, or nil when it has none
func (c Column) Choices() []Choice {
	if c.Options == nil {
		return nil
	}
	return c.Options.Choices
}

// RatingMax returns the declared upper bound for rating-like columns, or fallback
func (c Column) RatingMax(fallback int) int {
	if c.Options != nil && c.Options.Max > 0 {
		return c.Options.Max
	}
	return fallback
}

// DisplayName returns the most human-friendly label for the column
func (c Column) DisplayName() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Key != "":
		return c.Key
	default:
		return c.ID
	}
}
