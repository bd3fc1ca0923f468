package db

import (
	"strconv"
	"strings"
)

// Dialect identifies the SQL flavour behind a *DB.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Rebind rewrites ? placeholders into the dialect's bind syntax.
// Placeholders inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GeoJSON returns an expression selecting column as GeoJSON text.
// SQLite stores geometries as GeoJSON text already.
func (d Dialect) GeoJSON(column string) string {
	if d == Postgres {
		return "ST_AsGeoJSON(" + column + ")"
	}
	return column
}

// GeomFromGeoJSON returns a bind expression turning GeoJSON text into a
// WGS84 geometry value.
func (d Dialect) GeomFromGeoJSON() string {
	if d == Postgres {
		return "ST_SetSRID(ST_GeomFromGeoJSON(?), 4326)"
	}
	return "?"
}
