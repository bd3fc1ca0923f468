package repository

import (
	"context"

	"go.uber.org/zap"

	"gncitizen/internal/model"
	"gncitizen/pkg/db"
	"gncitizen/pkg/metrics"
)

// StatsRepository runs the read-only reporting aggregates.
type StatsRepository struct {
	db     *db.DB
	logger *zap.Logger
}

func NewStatsRepository(db *db.DB, logger *zap.Logger) *StatsRepository {
	return &StatsRepository{
		db:     db,
		logger: logger,
	}
}

// GlobalStats counts rows across the whole database. Only active programs
// are counted and species are distinct cd_nom values.
func (r *StatsRepository) GlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM t_obstax),
			(SELECT COUNT(*) FROM t_users),
			(SELECT COUNT(*) FROM t_programs WHERE is_active = TRUE),
			(SELECT COUNT(DISTINCT cd_nom) FROM t_obstax),
			(SELECT COUNT(*) FROM t_sites),
			(SELECT COUNT(*) FROM t_visit)`

	var s model.GlobalStats
	err := r.db.Observe(ctx, "aggregate", "t_obstax", query, func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, query).Scan(
			&s.Observations,
			&s.Users,
			&s.Programs,
			&s.Species,
			&s.Sites,
			&s.Visits,
		)
	})
	if err != nil {
		metrics.IncrementStatsRequest("global", "error")
		r.logger.Error("Failed to compute global stats", zap.Error(err))
		return nil, wrap("global stats", err)
	}
	metrics.IncrementStatsRequest("global", "ok")
	return &s, nil
}

// ProjectStats computes the counters of a project over its active programs.
// Observations, sites and visits are LEFT joined so that programs without
// any contribute zeros; every count is DISTINCT because the joins fan out.
func (r *StatsRepository) ProjectStats(ctx context.Context, projectID int) (*model.ProjectStats, error) {
	ok, err := exists(ctx, r.db, "t_projects", "id_project", projectID)
	if err != nil {
		r.logger.Error("Failed to check project", zap.Int("id_project", projectID), zap.Error(err))
		return nil, err
	}
	if !ok {
		metrics.IncrementStatsRequest("project", "not_found")
		return nil, notFound("project", projectID)
	}

	query := r.db.Dialect.Rebind(`
		SELECT
			COUNT(DISTINCT o.id_observation) + COUNT(DISTINCT v.id_visit) AS observations,
			COUNT(DISTINCT o.id_role) AS registered_contributors,
			COUNT(DISTINCT p.id_program) AS programs,
			COUNT(DISTINCT o.cd_nom) AS taxa,
			COUNT(DISTINCT s.id_site) AS sites
		FROM t_projects pr
		JOIN t_programs p ON p.id_project = pr.id_project
		LEFT JOIN t_obstax o ON o.id_program = p.id_program
		LEFT JOIN t_sites s ON s.id_program = p.id_program
		LEFT JOIN t_visit v ON v.id_site = s.id_site
		WHERE pr.id_project = ? AND p.is_active = TRUE`)

	var s model.ProjectStats
	err = r.db.Observe(ctx, "aggregate", "t_programs", query, func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, query, projectID).Scan(
			&s.Observations,
			&s.RegisteredContributors,
			&s.Programs,
			&s.Taxa,
			&s.Sites,
		)
	})
	if err != nil {
		metrics.IncrementStatsRequest("project", "error")
		r.logger.Error("Failed to compute project stats", zap.Int("id_project", projectID), zap.Error(err))
		return nil, wrap("project stats", err)
	}
	metrics.IncrementStatsRequest("project", "ok")
	return &s, nil
}
