package schema

import (
	"strings"

	"github.com/thenoetrevino/listctl/internal/models"
)

// Merge unions candidate into existing by column id, then by key.
//
// A candidate column whose id or key (case-insensitive) is already present is
// dropped and the existing definition is kept untouched, so inferred data never
// rewrites a recorded type or option set, and a key-only field never duplicates
// a column the service named by id. Columns new to existing are appended in
// candidate order. A nil existing yields a copy of candidate.
func Merge(existing *models.Schema, candidate models.Schema) models.Schema {
	if existing == nil {
		out := candidate
		out.Columns = append([]models.Column(nil), candidate.Columns...)
		return out
	}

	out := models.Schema{
		ListID:      existing.ListID,
		Columns:     make([]models.Column, 0, len(existing.Columns)+len(candidate.Columns)),
		Provisional: existing.Provisional,
	}
	if out.ListID == "" {
		out.ListID = candidate.ListID
	}

	seen := make(map[string]bool, len(existing.Columns)+len(candidate.Columns))
	seenKey := make(map[string]bool, len(existing.Columns)+len(candidate.Columns))
	for _, col := range existing.Columns {
		if seen[col.ID] {
			continue
		}
		seen[col.ID] = true
		if k := strings.ToLower(col.Key); k != "" {
			seenKey[k] = true
		}
		out.Columns = append(out.Columns, col)
	}
	for _, col := range candidate.Columns {
		k := strings.ToLower(col.Key)
		if seen[col.ID] || (k != "" && seenKey[k]) {
			continue
		}
		seen[col.ID] = true
		if k != "" {
			seenKey[k] = true
		}
		out.Columns = append(out.Columns, col)
	}

	return out
}
