package db

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Schema returns the DDL for the dialect.
func Schema(d Dialect) (string, error) {
	data, err := schemaFS.ReadFile("schema/" + string(d) + ".sql")
	if err != nil {
		return "", fmt.Errorf("no schema for dialect %q: %w", d, err)
	}
	return string(data), nil
}

// ApplySchema creates the tables that do not exist yet. Statements are
// idempotent so it is safe to run on every deploy.
func (d *DB) ApplySchema(ctx context.Context) error {
	ddl, err := Schema(d.Dialect)
	if err != nil {
		return err
	}
	for _, stmt := range strings.Split(ddl, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}
