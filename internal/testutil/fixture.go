// Package testutil provides an in-memory SQLite database with the service
// schema and helpers to seed it.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gncitizen/pkg/db"
)

// Fixture seeds rows into a test database. Every helper returns the new id.
type Fixture struct {
	t  testing.TB
	DB *db.DB
	n  int
}

// NewFixture opens a private in-memory database and applies the schema.
func NewFixture(t testing.TB) *Fixture {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.ApplySchema(context.Background()))
	return &Fixture{t: t, DB: conn}
}

func (f *Fixture) insert(query string, args ...interface{}) int {
	f.t.Helper()

	res, err := f.DB.Exec(query, args...)
	require.NoError(f.t, err, query)
	id, err := res.LastInsertId()
	require.NoError(f.t, err)
	return int(id)
}

func (f *Fixture) uid() string {
	f.n++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", f.n)
}

func (f *Fixture) Module(name string) int {
	return f.insert(`INSERT INTO t_modules (name, label) VALUES (?, ?)`, name, "Module "+name)
}

func (f *Fixture) Project(name string) int {
	return f.insert(`INSERT INTO t_projects (unique_id_project, name, short_desc) VALUES (?, ?, ?)`,
		f.uid(), name, name+" short description")
}

func (f *Fixture) CustomForm(name, schema string) int {
	return f.insert(`INSERT INTO t_custom_form (name, json_schema) VALUES (?, ?)`, name, schema)
}

func (f *Fixture) Geometry(name, geojson string) int {
	return f.insert(`INSERT INTO t_geometries (name, geom) VALUES (?, ?)`, name, geojson)
}

// ProgramOption adjusts a seeded program.
type ProgramOption func(*programRow)

type programRow struct {
	active bool
	geomID sql.NullInt64
	formID sql.NullInt64
}

func Inactive() ProgramOption {
	return func(p *programRow) { p.active = false }
}

func WithGeometry(geomID int) ProgramOption {
	return func(p *programRow) { p.geomID = sql.NullInt64{Int64: int64(geomID), Valid: true} }
}

func WithForm(formID int) ProgramOption {
	return func(p *programRow) { p.formID = sql.NullInt64{Int64: int64(formID), Valid: true} }
}

func (f *Fixture) Program(projectID, moduleID int, title string, opts ...ProgramOption) int {
	row := programRow{active: true}
	for _, opt := range opts {
		opt(&row)
	}
	return f.insert(`
		INSERT INTO t_programs (unique_id_program, id_project, title, short_desc, id_module, is_active, id_geom, id_form)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.uid(), projectID, title, title+" short description", moduleID, row.active, row.geomID, row.formID)
}

func (f *Fixture) User(username string) int {
	return f.insert(`INSERT INTO t_users (username) VALUES (?)`, username)
}

// Observation seeds an observation; a zero roleID stores an anonymous one.
func (f *Fixture) Observation(programID, roleID, cdNom int) int {
	var role sql.NullInt64
	if roleID != 0 {
		role = sql.NullInt64{Int64: int64(roleID), Valid: true}
	}
	return f.insert(`INSERT INTO t_obstax (id_program, id_role, cd_nom, count) VALUES (?, ?, ?, 1)`,
		programID, role, cdNom)
}

func (f *Fixture) SiteType(typ string) int {
	return f.insert(`INSERT INTO t_typesite (category, type) VALUES (?, ?)`, "default", typ)
}

func (f *Fixture) ProgramSiteType(programID, siteTypeID int) int {
	return f.insert(`INSERT INTO cor_program_typesites (id_program, id_typesite) VALUES (?, ?)`, programID, siteTypeID)
}

func (f *Fixture) Site(programID int, name string) int {
	return f.insert(`INSERT INTO t_sites (unique_id_site, id_program, name, geom) VALUES (?, ?, ?, ?)`,
		f.uid(), programID, name, `{"type":"Point","coordinates":[5.7,45.2]}`)
}

func (f *Fixture) Visit(siteID int) int {
	return f.insert(`INSERT INTO t_visit (id_site) VALUES (?)`, siteID)
}

// Count returns the number of rows of table.
func (f *Fixture) Count(table string) int {
	f.t.Helper()

	var n int
	require.NoError(f.t, f.DB.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}
