package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gncitizen/internal/model"
	"gncitizen/internal/repository"
)

type ProjectStore interface {
	List(ctx context.Context) ([]model.Project, error)
	Get(ctx context.Context, id int) (*model.Project, error)
}

type ProjectHandler struct {
	base
	projects ProjectStore
	programs ProgramStore
}

func NewProjectHandler(projects ProjectStore, programs ProgramStore, logger *zap.Logger, opts Options) *ProjectHandler {
	return &ProjectHandler{base: newBase(logger, opts), projects: projects, programs: programs}
}

// ListProjects GET /projects
// An empty project table is reported as not found.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		h.fail(c, "ListProjects", keyMessage, err)
		return
	}
	if len(projects) == 0 {
		h.fail(c, "ListProjects", keyMessage, errNoProjects)
		return
	}

	c.JSON(http.StatusOK, model.ProjectList{Count: len(projects), Items: projects})
}

// GetProjectPrograms GET /projects/:id/programs
func (h *ProjectHandler) GetProjectPrograms(c *gin.Context) {
	id, err := pathID(c, "project")
	if err != nil {
		h.fail(c, "GetProjectPrograms", keyMessage, err)
		return
	}

	ctx := c.Request.Context()
	project, err := h.projects.Get(ctx, id)
	if err != nil {
		h.fail(c, "GetProjectPrograms", keyMessage, err)
		return
	}

	programs, err := h.programs.ListByProject(ctx, id)
	if err != nil {
		h.fail(c, "GetProjectPrograms", keyMessage, err)
		return
	}

	c.JSON(http.StatusOK, model.ProjectPrograms{
		Project:  *project,
		Programs: model.ProgramList{Count: len(programs), Items: programs},
	})
}

var errNoProjects = &repository.NotFoundError{Entity: "project", Message: "No projects available"}
