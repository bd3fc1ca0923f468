package repository

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"gncitizen/internal/model"
	"gncitizen/pkg/db"
)

type ModuleRepository struct {
	db     *db.DB
	logger *zap.Logger
}

func NewModuleRepository(db *db.DB, logger *zap.Logger) *ModuleRepository {
	return &ModuleRepository{
		db:     db,
		logger: logger,
	}
}

const moduleColumns = `id_module, name, label, description, icon, on_sidebar, timestamp_create, timestamp_update`

func scanModule(row rowScanner, m *model.Module) error {
	return row.Scan(
		&m.ID,
		&m.Name,
		&m.Label,
		&m.Description,
		&m.Icon,
		&m.OnSidebar,
		nullTime{&m.TimestampCreate},
		nullTime{&m.TimestampUpdate},
	)
}

func (r *ModuleRepository) List(ctx context.Context) ([]model.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM t_modules ORDER BY id_module`

	modules := []model.Module{}
	err := r.db.Observe(ctx, "select", "t_modules", query, func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var m model.Module
			if err := scanModule(rows, &m); err != nil {
				return err
			}
			modules = append(modules, m)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list modules", zap.Error(err))
		return nil, wrap("list modules", err)
	}
	return modules, nil
}

func (r *ModuleRepository) Get(ctx context.Context, id int) (*model.Module, error) {
	query := r.db.Dialect.Rebind(`SELECT ` + moduleColumns + ` FROM t_modules WHERE id_module = ?`)

	var m model.Module
	err := r.db.Observe(ctx, "select", "t_modules", query, func(ctx context.Context) error {
		return scanModule(r.db.QueryRowContext(ctx, query, id), &m)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("module", id)
	}
	if err != nil {
		r.logger.Error("Failed to get module", zap.Int("id_module", id), zap.Error(err))
		return nil, wrap("get module", err)
	}
	return &m, nil
}
