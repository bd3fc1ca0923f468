package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"gncitizen/internal/model"
	"gncitizen/pkg/db"
)

type SiteRepository struct {
	db     *db.DB
	logger *zap.Logger
}

func NewSiteRepository(db *db.DB, logger *zap.Logger) *SiteRepository {
	return &SiteRepository{
		db:     db,
		logger: logger,
	}
}

// ListTypes returns every site type ordered by id.
func (r *SiteRepository) ListTypes(ctx context.Context) ([]model.SiteType, error) {
	query := `SELECT id_typesite, category, type FROM t_typesite ORDER BY id_typesite`

	types := []model.SiteType{}
	err := r.db.Observe(ctx, "select", "t_typesite", query, func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var t model.SiteType
			if err := rows.Scan(&t.ID, &t.Category, &t.Type); err != nil {
				return err
			}
			types = append(types, t)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list site types", zap.Error(err))
		return nil, wrap("list site types", err)
	}
	return types, nil
}

// TypeExists reports whether the site type row is present.
func (r *SiteRepository) TypeExists(ctx context.Context, id int) (bool, error) {
	return exists(ctx, r.db, "t_typesite", "id_typesite", id)
}

// InsertBatch stores sites in one transaction and fills their ids. Either
// every site is stored or none.
func (r *SiteRepository) InsertBatch(ctx context.Context, sites []model.Site) error {
	query := r.db.Dialect.Rebind(`
		INSERT INTO t_sites (unique_id_site, id_program, name, id_type, geom)
		VALUES (?, ?, ?, ?, ` + r.db.Dialect.GeomFromGeoJSON() + `)
		RETURNING id_site`)

	r.logger.Debug("Inserting sites", zap.Int("count", len(sites)))

	err := r.db.Observe(ctx, "insert", "t_sites", query, func(ctx context.Context) error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i := range sites {
			s := &sites[i]
			var typeID sql.NullInt64
			if s.TypeID != nil {
				typeID = sql.NullInt64{Int64: int64(*s.TypeID), Valid: true}
			}
			if err := stmt.QueryRowContext(ctx, s.UniqueID, s.ProgramID, s.Name, typeID, string(s.Geometry)).Scan(&s.ID); err != nil {
				return fmt.Errorf("site %d (%s): %w", i, s.Name, err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		r.logger.Error("Failed to insert sites", zap.Error(err))
		return wrap("insert sites", err)
	}

	r.logger.Info("Sites inserted successfully", zap.Int("count", len(sites)))
	return nil
}
