package dbutil

import (
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var limitRegex = regexp.MustCompile(`(?i)LIMIT\s+\?\s*,\s*\?`)

// Finalize rewrites a gendry-built query (MySQL placeholder style) into
// Postgres form: LIMIT x,y becomes LIMIT/OFFSET and ? becomes $n.
func Finalize(query string, args []interface{}) (string, []interface{}) {
	loc := limitRegex.FindStringIndex(query)
	if loc != nil {
		prefix := query[:loc[0]]
		qCount := strings.Count(prefix, "?")
		if qCount+1 < len(args) {
			args[qCount], args[qCount+1] = args[qCount+1], args[qCount]
			query = limitRegex.ReplaceAllString(query, "LIMIT ? OFFSET ?")
		}
	}
	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

func IsConflict(err error) bool {
	if pgErr, ok := err.(*pq.Error); ok {
		return pgErr.Code == "23505"
	}
	return false
}

// ConflictConstraint returns the name of the violated unique constraint,
// or empty when err is not a unique violation.
func ConflictConstraint(err error) string {
	if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
		return pgErr.Constraint
	}
	return ""
}
