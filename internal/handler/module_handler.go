package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gncitizen/internal/model"
)

type ModuleStore interface {
	List(ctx context.Context) ([]model.Module, error)
	Get(ctx context.Context, id int) (*model.Module, error)
}

type ModuleHandler struct {
	base
	modules ModuleStore
}

func NewModuleHandler(modules ModuleStore, logger *zap.Logger, opts Options) *ModuleHandler {
	return &ModuleHandler{base: newBase(logger, opts), modules: modules}
}

// GetModule GET /modules/:id
func (h *ModuleHandler) GetModule(c *gin.Context) {
	id, err := pathID(c, "module")
	if err != nil {
		h.fail(c, "GetModule", keyMessage, err)
		return
	}

	module, err := h.modules.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "GetModule", keyMessage, err)
		return
	}
	c.JSON(http.StatusOK, module)
}

// ListModules GET /modules
func (h *ModuleHandler) ListModules(c *gin.Context) {
	modules, err := h.modules.List(c.Request.Context())
	if err != nil {
		h.fail(c, "ListModules", keyMessage, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(modules),
		"datas": modules,
	})
}
