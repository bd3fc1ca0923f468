package repository

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"gncitizen/internal/model"
	"gncitizen/pkg/db"
)

type ProjectRepository struct {
	db     *db.DB
	logger *zap.Logger
}

func NewProjectRepository(db *db.DB, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

const projectColumns = `id_project, CAST(unique_id_project AS TEXT), name, short_desc, long_desc, timestamp_create, timestamp_update`

func scanProject(row rowScanner, p *model.Project) error {
	return row.Scan(
		&p.ID,
		&p.UniqueID,
		&p.Name,
		&p.ShortDesc,
		&p.LongDesc,
		nullTime{&p.TimestampCreate},
		nullTime{&p.TimestampUpdate},
	)
}

func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM t_projects ORDER BY id_project`

	projects := []model.Project{}
	err := r.db.Observe(ctx, "select", "t_projects", query, func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p model.Project
			if err := scanProject(rows, &p); err != nil {
				return err
			}
			projects = append(projects, p)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, wrap("list projects", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Get(ctx context.Context, id int) (*model.Project, error) {
	query := r.db.Dialect.Rebind(`SELECT ` + projectColumns + ` FROM t_projects WHERE id_project = ?`)

	var p model.Project
	err := r.db.Observe(ctx, "select", "t_projects", query, func(ctx context.Context) error {
		return scanProject(r.db.QueryRowContext(ctx, query, id), &p)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("project", id)
	}
	if err != nil {
		r.logger.Error("Failed to get project", zap.Int("id_project", id), zap.Error(err))
		return nil, wrap("get project", err)
	}
	return &p, nil
}

// exists reports whether table holds a row whose column equals id.
func exists(ctx context.Context, d *db.DB, table, column string, id int) (bool, error) {
	query := d.Dialect.Rebind(`SELECT COUNT(*) FROM ` + table + ` WHERE ` + column + ` = ?`)

	var n int64
	err := d.Observe(ctx, "select", table, query, func(ctx context.Context) error {
		return d.QueryRowContext(ctx, query, id).Scan(&n)
	})
	if err != nil {
		return false, wrap("check "+table, err)
	}
	return n > 0, nil
}
