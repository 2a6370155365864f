package store

import (
	"fmt"
	"strings"

	"github.com/rcliao/person-registry/internal/model"
)

// likeEscaper makes % and _ match themselves, like strings.Contains in matches.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filter renders the WHERE clause and arguments for p. placeholder returns the
// bind marker for the n-th argument (1-based), so both SQL dialects share it.
func filter(p ListParams, placeholder func(n int) string) (string, []any) {
	var where []string
	var args []any

	next := func(v any) string {
		args = append(args, v)
		return placeholder(len(args))
	}

	if q := strings.TrimSpace(p.Query); q != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
		where = append(where, fmt.Sprintf(
			`(national_id LIKE %s ESCAPE '\' OR LOWER(first_names) LIKE %s ESCAPE '\' OR LOWER(last_names) LIKE %s ESCAPE '\')`,
			next(like), next(like), next(like)))
	}
	if p.City != "" {
		where = append(where, "city = "+next(p.City))
	}
	if p.Gender != "" {
		where = append(where, "gender = "+next(p.Gender))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	if p.Order == OrderOldest {
		clause += " ORDER BY registered_at ASC, id ASC"
	} else {
		clause += " ORDER BY registered_at DESC, id DESC"
	}

	if p.Limit > 0 {
		clause += " LIMIT " + next(p.Limit)
	}
	return clause, args
}

// matches applies p's filters to a single record, for the in-memory store.
func matches(m model.Person, p ListParams) bool {
	if q := strings.ToLower(strings.TrimSpace(p.Query)); q != "" {
		if !strings.Contains(m.NationalID, q) &&
			!strings.Contains(strings.ToLower(m.FirstNames), q) &&
			!strings.Contains(strings.ToLower(m.LastNames), q) {
			return false
		}
	}
	if p.City != "" && m.City != p.City {
		return false
	}
	if p.Gender != "" && m.Gender != p.Gender {
		return false
	}
	return true
}
