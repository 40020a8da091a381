// Package user matches loosely-typed user references against lookup candidates
package user

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/thenoetrevino/listctl/internal/models"
)

// Policy decides what happens when several candidates match a token
type Policy string

const (
	// PolicyFirst resolves to the first candidate at the earliest matching attribute
	PolicyFirst Policy = "first"
	// PolicyStrict rejects a token that matches more than one candidate
	PolicyStrict Policy = "strict"
)

// Matching errors
var (
	ErrNoMatch   = errors.New("no user matches")
	ErrAmbiguous = errors.New("more than one user matches")
)

var idPattern = regexp.MustCompile(`^[UW][A-Z0-9]{8,}$`)

// ParsePolicy maps a config value to a Policy, defaulting to PolicyFirst
func ParsePolicy(s string) Policy {
	if strings.EqualFold(s, string(PolicyStrict)) {
		return PolicyStrict
	}
	return PolicyFirst
}

// LooksLikeID reports whether token is already a user id.
// An "id:" prefix forces id interpretation.
func LooksLikeID(token string) (string, bool) {
	if rest, ok := strings.CutPrefix(token, "id:"); ok && rest != "" {
		return rest, true
	}
	if idPattern.MatchString(token) {
		return token, true
	}
	return "", false
}

// Match finds the candidate for token by email, then display name, then name,
// case-insensitively. Attributes are tried in that order and the first one
// with any match decides; within it the policy breaks ties.
func Match(candidates []models.User, token string, policy Policy) (models.User, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "@"))
	if token == "" {
		return models.User{}, fmt.Errorf("%w: empty reference", ErrNoMatch)
	}

	attributes := []func(models.User) string{
		func(u models.User) string { return u.Email },
		func(u models.User) string { return u.DisplayName },
		func(u models.User) string { return u.Name },
	}

	for _, attr := range attributes {
		var matches []models.User
		for _, c := range candidates {
			if v := attr(c); v != "" && strings.EqualFold(v, token) {
				matches = append(matches, c)
			}
		}
		switch {
		case len(matches) == 0:
			continue
		case len(matches) > 1 && policy == PolicyStrict:
			ids := make([]string, len(matches))
			for i, m := range matches {
				ids[i] = m.ID
			}
			return models.User{}, fmt.Errorf("%w %q: %s", ErrAmbiguous, token, strings.Join(ids, ", "))
		default:
			return matches[0], nil
		}
	}

	return models.User{}, fmt.Errorf("%w %q", ErrNoMatch, token)
}
