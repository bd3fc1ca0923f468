package repository

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"gncitizen/internal/model"
	"gncitizen/pkg/db"
)

type ProgramRepository struct {
	db     *db.DB
	logger *zap.Logger
}

func NewProgramRepository(db *db.DB, logger *zap.Logger) *ProgramRepository {
	return &ProgramRepository{
		db:     db,
		logger: logger,
	}
}

const programColumns = `
	p.id_program, CAST(p.unique_id_program AS TEXT), p.id_project, p.title,
	p.short_desc, p.long_desc, p.form_message, p.image, p.logo, p.id_module,
	p.taxonomy_list, p.is_active, p.id_geom, p.id_form, p.geometry_type,
	p.on_sidebar, p.timestamp_create, p.timestamp_update, m.name`

// selectPrograms returns the program SELECT, with the geometry column last
// when withGeom is set.
func (r *ProgramRepository) selectPrograms(withGeom bool) string {
	if !withGeom {
		return `SELECT ` + programColumns + `
		FROM t_programs p
		JOIN t_modules m ON m.id_module = p.id_module`
	}
	return `SELECT ` + programColumns + `, ` + r.db.Dialect.GeoJSON("g.geom") + `
		FROM t_programs p
		JOIN t_modules m ON m.id_module = p.id_module
		LEFT JOIN t_geometries g ON g.id_geom = p.id_geom`
}

func scanProgram(row rowScanner, p *model.Program, withGeom bool) error {
	var geometry *string
	dest := []interface{}{
		&p.ID,
		&p.UniqueID,
		&p.ProjectID,
		&p.Title,
		&p.ShortDesc,
		&p.LongDesc,
		&p.FormMessage,
		&p.Image,
		&p.Logo,
		&p.ModuleID,
		&p.TaxonomyList,
		&p.IsActive,
		&p.GeomID,
		&p.FormID,
		&p.GeometryType,
		&p.OnSidebar,
		nullTime{&p.TimestampCreate},
		nullTime{&p.TimestampUpdate},
		&p.ModuleName,
	}
	if withGeom {
		dest = append(dest, &geometry)
	}
	err := row.Scan(dest...)
	if err != nil {
		return err
	}
	p.Geometry, err = rawJSON("t_geometries.geom", geometry)
	return err
}

func (r *ProgramRepository) list(ctx context.Context, op, query string, withGeom bool, args ...interface{}) ([]model.Program, error) {
	programs := []model.Program{}
	err := r.db.Observe(ctx, "select", "t_programs", query, func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p model.Program
			if err := scanProgram(rows, &p, withGeom); err != nil {
				return err
			}
			programs = append(programs, p)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list programs", zap.String("op", op), zap.Error(err))
		return nil, wrap(op, err)
	}
	return programs, nil
}

// ListActive returns every active program ordered by id.
func (r *ProgramRepository) ListActive(ctx context.Context, withGeom bool) ([]model.Program, error) {
	query := r.selectPrograms(withGeom) + `
		WHERE p.is_active = TRUE
		ORDER BY p.id_program`
	return r.list(ctx, "list active programs", query, withGeom)
}

// ListByProject returns all programs of a project, active or not.
func (r *ProgramRepository) ListByProject(ctx context.Context, projectID int) ([]model.Program, error) {
	query := r.db.Dialect.Rebind(r.selectPrograms(false) + `
		WHERE p.id_project = ?
		ORDER BY p.id_program`)
	return r.list(ctx, "list project programs", query, false, projectID)
}

// ListAll returns every program ordered by id.
func (r *ProgramRepository) ListAll(ctx context.Context) ([]model.Program, error) {
	query := r.selectPrograms(false) + `
		ORDER BY p.id_program`
	return r.list(ctx, "list programs", query, false)
}

// Get returns a program whatever its active flag.
func (r *ProgramRepository) Get(ctx context.Context, id int) (*model.Program, error) {
	query := r.db.Dialect.Rebind(r.selectPrograms(false) + `
		WHERE p.id_program = ?`)

	var p model.Program
	err := r.db.Observe(ctx, "select", "t_programs", query, func(ctx context.Context) error {
		return scanProgram(r.db.QueryRowContext(ctx, query, id), &p, false)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("program", id)
	}
	if err != nil {
		r.logger.Error("Failed to get program", zap.Int("id_program", id), zap.Error(err))
		return nil, wrap("get program", err)
	}
	return &p, nil
}

// GetActive returns an active program with geometry, module and custom form.
func (r *ProgramRepository) GetActive(ctx context.Context, id int) (*model.ProgramDetail, error) {
	query := r.db.Dialect.Rebind(r.selectPrograms(true) + `
		WHERE p.id_program = ? AND p.is_active = TRUE`)

	var d model.ProgramDetail
	err := r.db.Observe(ctx, "select", "t_programs", query, func(ctx context.Context) error {
		return scanProgram(r.db.QueryRowContext(ctx, query, id), &d.Program, true)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("program", id)
	}
	if err != nil {
		r.logger.Error("Failed to get active program", zap.Int("id_program", id), zap.Error(err))
		return nil, wrap("get program", err)
	}

	modules := NewModuleRepository(r.db, r.logger)
	module, err := modules.Get(ctx, d.ModuleID)
	if err != nil {
		return nil, err
	}
	d.Module = *module

	if d.FormID != nil {
		forms := NewCustomFormRepository(r.db, r.logger)
		form, err := forms.Get(ctx, *d.FormID)
		if err != nil {
			return nil, err
		}
		d.CustomForm = form
	}
	return &d, nil
}

// SiteTypes returns the site types allowed for a sites program.
func (r *ProgramRepository) SiteTypes(ctx context.Context, programID int) ([]model.SiteTypeOption, error) {
	query := r.db.Dialect.Rebind(`
		SELECT t.id_typesite, t.type
		FROM cor_program_typesites c
		JOIN t_typesite t ON t.id_typesite = c.id_typesite
		WHERE c.id_program = ?
		ORDER BY t.id_typesite`)

	options := []model.SiteTypeOption{}
	err := r.db.Observe(ctx, "select", "cor_program_typesites", query, func(ctx context.Context) error {
		rows, err := r.db.QueryContext(ctx, query, programID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var o model.SiteTypeOption
			if err := rows.Scan(&o.Value, &o.Text); err != nil {
				return err
			}
			options = append(options, o)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list program site types", zap.Int("id_program", programID), zap.Error(err))
		return nil, wrap("list program site types", err)
	}
	return options, nil
}
