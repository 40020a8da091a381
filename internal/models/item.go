package models

import (
	"encoding/json"
	"fmt"
)

// Item is one row of a list
type Item struct {
	ID     string  `json:"id"`
	ListID string  `json:"list_id"`
	Fields []Field `json:"fields"`
}

// FieldByColumn returns the first field bound to columnID, matching by column id
// first and by key second
func (i Item) FieldByColumn(columnID string) (Field, bool) {
	for _, f := range i.Fields {
		if f.ColumnID == columnID {
			return f, true
		}
	}
	for _, f := range i.Fields {
		if f.ColumnID == "" && f.Key == columnID {
			return f, true
		}
	}
	return Field{}, false
}

// Field is an item's value for one column.
// Value holds the type-specific payload; Fallback holds the generic scalar
// older or partial payloads carry instead.
type Field struct {
	ColumnID string
	Key      string
	Value    FieldValue
	Fallback any
}

// FieldValue is the tagged payload of a field. The set of implementations is closed.
type FieldValue interface {
	fieldValue()
}

// TextValue is a plain text payload
type TextValue struct {
	Text string
}

// RichTextValue is a block/element tree payload
type RichTextValue struct {
	Blocks []RichTextNode
}

// SelectValue holds canonical option values
type SelectValue struct {
	Values []string
}

// UserValue holds user ids
type UserValue struct {
	IDs []string
}

// RatingValue holds numeric ratings
type RatingValue struct {
	Values []int
}

// DateValue holds YYYY-MM-DD dates
type DateValue struct {
	Dates []string
}

// CheckboxValue is a boolean payload
type CheckboxValue struct {
	Checked bool
}

// AttachmentValue holds file ids
type AttachmentValue struct {
	FileIDs []string
}

// ReferenceValue holds ids of referenced records
type ReferenceValue struct {
	Refs []string
}

// LinkValue holds URLs with optional display labels
type LinkValue struct {
	Links []Link
}

// MessageValue holds message permalinks
type MessageValue struct {
	Permalinks []string
}

func (TextValue) fieldValue()       {}
func (RichTextValue) fieldValue()   {}
func (SelectValue) fieldValue()     {}
func (UserValue) fieldValue()       {}
func (RatingValue) fieldValue()     {}
func (DateValue) fieldValue()       {}
func (CheckboxValue) fieldValue()   {}
func (AttachmentValue) fieldValue() {}
func (ReferenceValue) fieldValue()  {}
func (LinkValue) fieldValue()       {}
func (MessageValue) fieldValue()    {}

// Link is one URL entry of a link field
type Link struct {
	URL   string `json:"original_url"`
	Label string `json:"display_name,omitempty"`
}

// RichTextNode is a node of a rich text tree. Leaves carry Text (or URL);
// containers carry Elements.
type RichTextNode struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	URL      string         `json:"url,omitempty"`
	Elements []RichTextNode `json:"elements,omitempty"`
}

// PlainRichText wraps text as a single rich text section
func PlainRichText(text string) []RichTextNode {
	return []RichTextNode{{
		Type: "rich_text",
		Elements: []RichTextNode{{
			Type:     "rich_text_section",
			Elements: []RichTextNode{{Type: "text", Text: text}},
		}},
	}}
}

// fieldWire is the on-the-wire shape of a field: one optional key per variant
type fieldWire struct {
	ColumnID   string          `json:"column_id,omitempty"`
	Key        string          `json:"key,omitempty"`
	Value      any             `json:"value,omitempty"`
	Text       *string         `json:"text,omitempty"`
	RichText   *[]RichTextNode `json:"rich_text,omitempty"`
	Select     *[]string       `json:"select,omitempty"`
	User       *[]string       `json:"user,omitempty"`
	Rating     *[]int          `json:"rating,omitempty"`
	Date       *[]string       `json:"date,omitempty"`
	Checkbox   *bool           `json:"checkbox,omitempty"`
	Attachment *[]string       `json:"attachment,omitempty"`
	Reference  *[]string       `json:"reference,omitempty"`
	Link       *[]Link         `json:"link,omitempty"`
	Message    *[]string       `json:"message,omitempty"`
}

// MarshalJSON encodes the field in the service's tagged shape
func (f Field) MarshalJSON() ([]byte, error) {
	w := fieldWire{ColumnID: f.ColumnID, Key: f.Key, Value: f.Fallback}
	switch v := f.Value.(type) {
	case nil:
	case TextValue:
		text := v.Text
		w.Text = &text
	case RichTextValue:
		w.RichText = present(v.Blocks)
	case SelectValue:
		w.Select = present(v.Values)
	case UserValue:
		w.User = present(v.IDs)
	case RatingValue:
		w.Rating = present(v.Values)
	case DateValue:
		w.Date = present(v.Dates)
	case CheckboxValue:
		checked := v.Checked
		w.Checkbox = &checked
	case AttachmentValue:
		w.Attachment = present(v.FileIDs)
	case ReferenceValue:
		w.Reference = present(v.Refs)
	case LinkValue:
		w.Link = present(v.Links)
	case MessageValue:
		w.Message = present(v.Permalinks)
	default:
		return nil, fmt.Errorf("unknown field value %T", f.Value)
	}
	return json.Marshal(w)
}

// present keeps empty payloads on the wire so they clear the column
func present[T any](values []T) *[]T {
	if values == nil {
		values = []T{}
	}
	return &values
}

// UnmarshalJSON decodes the tagged shape. When several variants are present the
// most specific one wins; rich text beats plain text.
func (f *Field) UnmarshalJSON(data []byte) error {
	var w fieldWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	f.ColumnID = w.ColumnID
	f.Key = w.Key
	f.Fallback = w.Value
	f.Value = nil

	switch {
	case w.Select != nil:
		f.Value = SelectValue{Values: *w.Select}
	case w.User != nil:
		f.Value = UserValue{IDs: *w.User}
	case w.Rating != nil:
		f.Value = RatingValue{Values: *w.Rating}
	case w.Date != nil:
		f.Value = DateValue{Dates: *w.Date}
	case w.Checkbox != nil:
		f.Value = CheckboxValue{Checked: *w.Checkbox}
	case w.Message != nil:
		f.Value = MessageValue{Permalinks: *w.Message}
	case w.Attachment != nil:
		f.Value = AttachmentValue{FileIDs: *w.Attachment}
	case w.Link != nil:
		f.Value = LinkValue{Links: *w.Link}
	case w.Reference != nil:
		f.Value = ReferenceValue{Refs: *w.Reference}
	case w.RichText != nil:
		f.Value = RichTextValue{Blocks: *w.RichText}
	case w.Text != nil:
		f.Value = TextValue{Text: *w.Text}
	}
	return nil
}
