package db

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the SQL flavour and driver for a Storage.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func ParseDialect(name string) (Dialect, error) {
	switch Dialect(strings.ToLower(name)) {
	case Postgres, "postgresql", "pgx":
		return Postgres, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// driverName is the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// lower wraps expr in the dialect's Unicode-aware lower-casing function.
func (d Dialect) lower(expr string) string {
	if d == SQLite {
		return unicodeLower + "(" + expr + ")"
	}
	return "LOWER(" + expr + ")"
}

// rebind rewrites ? placeholders into $1, $2, ... for postgres. Queries in
// this package never carry a literal question mark.
func (d Dialect) rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, used with ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
