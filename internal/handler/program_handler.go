package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gncitizen/internal/geojson"
	"gncitizen/internal/model"
)

type ProgramStore interface {
	ListActive(ctx context.Context, withGeom bool) ([]model.Program, error)
	ListByProject(ctx context.Context, projectID int) ([]model.Program, error)
	ListAll(ctx context.Context) ([]model.Program, error)
	Get(ctx context.Context, id int) (*model.Program, error)
	GetActive(ctx context.Context, id int) (*model.ProgramDetail, error)
	SiteTypes(ctx context.Context, programID int) ([]model.SiteTypeOption, error)
}

type CustomFormStore interface {
	Get(ctx context.Context, id int) (*model.CustomForm, error)
}

type ProgramHandler struct {
	base
	programs ProgramStore
	forms    CustomFormStore
}

func NewProgramHandler(programs ProgramStore, forms CustomFormStore, logger *zap.Logger, opts Options) *ProgramHandler {
	return &ProgramHandler{base: newBase(logger, opts), programs: programs, forms: forms}
}

// ListPrograms GET /programs?with_geom
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	withGeom := queryFlag(c, "with_geom")

	programs, err := h.programs.ListActive(c.Request.Context(), withGeom)
	if err != nil {
		h.fail(c, "ListPrograms", keyMessage, err)
		return
	}

	features := make([]geojson.Feature, 0, len(programs))
	for _, p := range programs {
		features = append(features, geojson.NewProgramFeature(p, withGeom))
	}

	h.log(c).Debug("ListPrograms: success",
		zap.Bool("with_geom", withGeom),
		zap.Int("program_count", len(features)),
	)
	c.JSON(http.StatusOK, geojson.NewFeatureCollection(features))
}

// GetProgram GET /programs/:id
// Only active programs are served. Programs of the sites module also carry
// their allowed site types.
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	id, err := pathID(c, "program")
	if err != nil {
		h.fail(c, "GetProgram", keyMessage, err)
		return
	}

	ctx := c.Request.Context()
	detail, err := h.programs.GetActive(ctx, id)
	if err != nil {
		h.fail(c, "GetProgram", keyMessage, err)
		return
	}

	var siteTypes []model.SiteTypeOption
	if detail.Module.Name == model.ModuleSites {
		siteTypes, err = h.programs.SiteTypes(ctx, id)
		if err != nil {
			h.fail(c, "GetProgram", keyMessage, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"features": []geojson.Feature{geojson.NewProgramDetailFeature(*detail, siteTypes)},
	})
}

// GetProgramCustomForm GET /programs/:id/customform
// A program without a form answers 200 with a null body.
func (h *ProgramHandler) GetProgramCustomForm(c *gin.Context) {
	id, err := pathID(c, "program")
	if err != nil {
		h.fail(c, "GetProgramCustomForm", keyErrorMessage, err)
		return
	}

	ctx := c.Request.Context()
	program, err := h.programs.Get(ctx, id)
	if err != nil {
		h.fail(c, "GetProgramCustomForm", keyErrorMessage, err)
		return
	}
	if program.FormID == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	form, err := h.forms.Get(ctx, *program.FormID)
	if err != nil {
		h.fail(c, "GetProgramCustomForm", keyErrorMessage, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// GetCustomForm GET /customform/:id
func (h *ProgramHandler) GetCustomForm(c *gin.Context) {
	id, err := pathID(c, "custom form")
	if err != nil {
		h.fail(c, "GetCustomForm", keyErrorMessage, err)
		return
	}

	form, err := h.forms.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "GetCustomForm", keyErrorMessage, err)
		return
	}
	c.JSON(http.StatusOK, form)
}
