package repository

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"gncitizen/internal/model"
	"gncitizen/pkg/db"
)

type CustomFormRepository struct {
	db     *db.DB
	logger *zap.Logger
}

func NewCustomFormRepository(db *db.DB, logger *zap.Logger) *CustomFormRepository {
	return &CustomFormRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CustomFormRepository) Get(ctx context.Context, id int) (*model.CustomForm, error) {
	query := r.db.Dialect.Rebind(`
		SELECT id_form, name, CAST(json_schema AS TEXT), timestamp_create, timestamp_update
		FROM t_custom_form
		WHERE id_form = ?`)

	var (
		f      model.CustomForm
		schema *string
	)
	err := r.db.Observe(ctx, "select", "t_custom_form", query, func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, query, id).Scan(
			&f.ID,
			&f.Name,
			&schema,
			nullTime{&f.TimestampCreate},
			nullTime{&f.TimestampUpdate},
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("custom form", id)
	}
	if err != nil {
		r.logger.Error("Failed to get custom form", zap.Int("id_form", id), zap.Error(err))
		return nil, wrap("get custom form", err)
	}
	if f.JSONSchema, err = rawJSON("t_custom_form.json_schema", schema); err != nil {
		r.logger.Error("Stored custom form schema is not JSON", zap.Int("id_form", id), zap.Error(err))
		return nil, wrap("get custom form", err)
	}
	return &f, nil
}
