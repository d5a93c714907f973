package services

import (
	"strings"

	"github.com/ibrahimchallal/tournament_service/internal/domain"
)

// FilterRegistrations computes the visible subset of an already-fetched
// record set. Text query is a case-insensitive substring match on full name,
// email or group code; a blank query matches everything. Category is "all",
// "DEV" or "ID". Both predicates are ANDed. The input slice is never
// mutated.
//
// The DEV predicate matches any group code starting with "D", which is
// broader than the enumerated DEV codes. That is long-standing behavior the
// dashboard depends on; do not narrow it.
func FilterRegistrations(records []domain.Registration, query, category string) []domain.Registration {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]domain.Registration, 0, len(records))
	for _, r := range records {
		if !matchesQuery(r, q) {
			continue
		}
		if !matchesCategory(r.GroupCode, category) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery(r domain.Registration, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.FullName), q) ||
		strings.Contains(strings.ToLower(r.Email), q) ||
		strings.Contains(strings.ToLower(r.GroupCode), q)
}

func matchesCategory(groupCode, category string) bool {
	switch category {
	case "", "all":
		return true
	case domain.CategoryDev:
		return strings.HasPrefix(groupCode, "D")
	case domain.CategoryID:
		return strings.HasPrefix(groupCode, "ID")
	default:
		return false
	}
}
