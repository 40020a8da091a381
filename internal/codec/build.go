// Package codec converts between loose CLI input and the service's tagged
// field payloads, guided by a resolved column.
package codec

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thenoetrevino/listctl/internal/listservice"
	"github.com/thenoetrevino/listctl/internal/models"
	"github.com/thenoetrevino/listctl/internal/user"
)

const dateLayout = "2006-01-02"

// checkedTokens are the inputs that mark a checkbox; anything else unchecks it
var checkedTokens = map[string]bool{
	"completed": true,
	"done":      true,
	"true":      true,
	"yes":       true,
	"1":         true,
}

// Builder builds field payloads. It performs no writes; the only I/O is the
// user lookup needed to turn names into ids.
type Builder struct {
	Users      listservice.UserDirectory
	UserPolicy user.Policy
	RatingMax  int
}

// Build coerces raw into the payload matching column's type
func (b *Builder) Build(ctx context.Context, column models.Column, raw string) (models.Field, error) {
	field := models.Field{ColumnID: column.ID, Key: column.Key}

	switch column.Type {
	case models.ColumnTypeText:
		field.Value = models.TextValue{Text: raw}

	case models.ColumnTypeRichText:
		field.Value = models.RichTextValue{Blocks: models.PlainRichText(raw)}

	case models.ColumnTypeSelect:
		values, err := ResolveSelectValues(column, raw)
		if err != nil {
			return models.Field{}, err
		}
		field.Value = models.SelectValue{Values: values}

	case models.ColumnTypeUser, models.ColumnTypeAssignee:
		ids, err := b.resolveUsers(ctx, column, raw)
		if err != nil {
			return models.Field{}, err
		}
		field.Value = models.UserValue{IDs: ids}

	case models.ColumnTypeDate, models.ColumnTypeDueDate:
		date, err := parseDate(column, raw)
		if err != nil {
			return models.Field{}, err
		}
		field.Value = models.DateValue{Dates: []string{date}}

	case models.ColumnTypeRating, models.ColumnTypePriority:
		n, err := parseRating(column, raw, b.ratingMax())
		if err != nil {
			return models.Field{}, err
		}
		field.Value = models.RatingValue{Values: []int{n}}

	case models.ColumnTypeCheckbox, models.ColumnTypeTodoCompleted:
		field.Value = models.CheckboxValue{Checked: ParseChecked(raw)}

	case models.ColumnTypeAttachment:
		field.Value = models.AttachmentValue{FileIDs: refTargets(raw)}

	case models.ColumnTypeReference:
		field.Value = models.ReferenceValue{Refs: refTargets(raw)}

	case models.ColumnTypeMessage:
		field.Value = models.MessageValue{Permalinks: refTargets(raw)}

	case models.ColumnTypeLink:
		links := []models.Link{}
		if url, label := splitLabel(raw); url != "" {
			links = append(links, models.Link{URL: url, Label: label})
		}
		field.Value = models.LinkValue{Links: links}

	default:
		return models.Field{}, &FieldError{Kind: ErrUnsupportedColumnType, Column: column.DisplayName(), Input: string(column.Type)}
	}

	return field, nil
}

// ResolveSelectValues splits raw on commas and maps each token to a canonical
// option value, matching value or label case-insensitively
func ResolveSelectValues(column models.Column, raw string) ([]string, error) {
	choices := column.Choices()
	values := []string{}
	seen := make(map[string]bool)

	for _, token := range splitTokens(raw) {
		value, ok := matchChoice(choices, token)
		if !ok {
			return nil, &FieldError{
				Kind:   ErrUnknownOption,
				Column: column.DisplayName(),
				Input:  token,
				Detail: "valid: " + strings.Join(choiceLabels(choices), ", "),
			}
		}
		if !seen[value] {
			seen[value] = true
			values = append(values, value)
		}
	}
	return values, nil
}

// ParseChecked is the lenient checkbox coercion; it never fails
func ParseChecked(raw string) bool {
	return checkedTokens[strings.ToLower(strings.TrimSpace(raw))]
}

func (b *Builder) resolveUsers(ctx context.Context, column models.Column, raw string) ([]string, error) {
	ids := []string{}
	var candidates []models.User
	loaded := false

	for _, token := range splitTokens(raw) {
		if id, ok := user.LooksLikeID(token); ok {
			ids = append(ids, id)
			continue
		}

		if b.Users == nil {
			return nil, &FieldError{Kind: ErrUnknownUser, Column: column.DisplayName(), Input: token, Detail: "user lookup unavailable"}
		}
		if !loaded {
			var err error
			candidates, err = b.Users.LookupUsers(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("user lookup: %w", err)
			}
			loaded = true
		}

		u, err := user.Match(candidates, token, b.UserPolicy)
		if err != nil {
			detail := ""
			if errors.Is(err, user.ErrAmbiguous) {
				detail = err.Error()
			}
			return nil, &FieldError{Kind: ErrUnknownUser, Column: column.DisplayName(), Input: token, Detail: detail}
		}
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (b *Builder) ratingMax() int {
	if b.RatingMax > 0 {
		return b.RatingMax
	}
	return models.DefaultRatingMax
}

func parseDate(column models.Column, raw string) (string, error) {
	s := strings.TrimSpace(raw)
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", &FieldError{Kind: ErrInvalidDate, Column: column.DisplayName(), Input: raw}
	}
	return t.Format(dateLayout), nil
}

func parseRating(column models.Column, raw string, fallbackMax int) (int, error) {
	s := strings.TrimSpace(raw)
	max := column.RatingMax(fallbackMax)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, &FieldError{Kind: ErrInvalidValue, Column: column.DisplayName(), Input: raw, Detail: fmt.Sprintf("want a whole number 1-%d", max)}
	}
	n := int(f)
	if n < 1 || n > max {
		return 0, &FieldError{Kind: ErrInvalidValue, Column: column.DisplayName(), Input: raw, Detail: fmt.Sprintf("out of range 1-%d", max)}
	}
	return n, nil
}

func matchChoice(choices []models.Choice, token string) (string, bool) {
	for _, c := range choices {
		if strings.EqualFold(c.Value, token) {
			return c.Value, true
		}
	}
	for _, c := range choices {
		if strings.EqualFold(c.Label, token) {
			return c.Value, true
		}
	}
	return "", false
}

func choiceLabels(choices []models.Choice) []string {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}
	return labels
}

// splitTokens splits on commas and drops blank tokens
func splitTokens(raw string) []string {
	var tokens []string
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// splitLabel splits "url|label"
func splitLabel(raw string) (string, string) {
	target, label, _ := strings.Cut(strings.TrimSpace(raw), "|")
	return strings.TrimSpace(target), strings.TrimSpace(label)
}

func refTargets(raw string) []string {
	target, _ := splitLabel(raw)
	if target == "" {
		return []string{}
	}
	return []string{target}
}
