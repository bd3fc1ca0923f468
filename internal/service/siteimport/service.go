package siteimport

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"gncitizen/internal/geojson"
	"gncitizen/internal/model"
	"gncitizen/internal/repository"
	"gncitizen/pkg/logger"
	"gncitizen/pkg/metrics"
	"gncitizen/pkg/otel"
)

// ErrInvalidImport marks a request that cannot be imported as sent.
var ErrInvalidImport = errors.New("invalid import")

// Request is one uploaded FeatureCollection to turn into sites.
type Request struct {
	ProgramID int
	// SiteTypeID is optional.
	SiteTypeID *int
	// FeatureName is the feature property holding the site name.
	FeatureName string
	Data        []byte
}

type Service struct {
	programRepo *repository.ProgramRepository
	siteRepo    *repository.SiteRepository
	logger      *zap.Logger
}

func NewService(programRepo *repository.ProgramRepository, siteRepo *repository.SiteRepository, logger *zap.Logger) *Service {
	return &Service{
		programRepo: programRepo,
		siteRepo:    siteRepo,
		logger:      logger,
	}
}

// Import creates one site per feature and returns the stored sites.
func (s *Service) Import(ctx context.Context, req Request) ([]model.Site, error) {
	ctx, span := otel.StartSpan(ctx, "siteimport.Import",
		trace.WithAttributes(attribute.Int("gnc.id_program", req.ProgramID)),
	)
	defer span.End()

	log := logger.WithTrace(ctx, s.logger)

	if req.FeatureName == "" {
		return nil, fmt.Errorf("%w: feature_name is required", ErrInvalidImport)
	}

	if _, err := s.programRepo.Get(ctx, req.ProgramID); err != nil {
		return nil, err
	}
	if req.SiteTypeID != nil {
		ok, err := s.siteRepo.TypeExists(ctx, *req.SiteTypeID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &repository.NotFoundError{Entity: "site type", ID: *req.SiteTypeID}
		}
	}

	fc, err := geojson.ParseCollection(req.Data)
	if err != nil {
		return nil, err
	}

	sites := make([]model.Site, 0, len(fc.Features))
	for i, f := range fc.Features {
		name, ok := f.PropertyString(req.FeatureName)
		if !ok {
			return nil, fmt.Errorf("%w: feature %d has no %q property", ErrInvalidImport, i, req.FeatureName)
		}
		sites = append(sites, model.Site{
			UniqueID:  uuid.NewString(),
			ProgramID: req.ProgramID,
			Name:      name,
			TypeID:    req.SiteTypeID,
			Geometry:  f.Geometry,
		})
	}

	if len(sites) > 0 {
		if err := s.siteRepo.InsertBatch(ctx, sites); err != nil {
			return nil, err
		}
	}
	metrics.AddImportedSites(len(sites))

	log.Info("GeoJSON import finished",
		zap.Int("id_program", req.ProgramID),
		zap.Int("sites", len(sites)),
	)
	return sites, nil
}
