package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gncitizen/internal/model"
)

type StatsStore interface {
	GlobalStats(ctx context.Context) (*model.GlobalStats, error)
	ProjectStats(ctx context.Context, projectID int) (*model.ProjectStats, error)
}

type StatsHandler struct {
	base
	stats StatsStore
}

func NewStatsHandler(stats StatsStore, logger *zap.Logger, opts Options) *StatsHandler {
	return &StatsHandler{base: newBase(logger, opts), stats: stats}
}

// GetStats GET /stats
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.stats.GlobalStats(c.Request.Context())
	if err != nil {
		h.fail(c, "GetStats", keyMessage, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetProjectStats GET /projects/:id/stats
func (h *StatsHandler) GetProjectStats(c *gin.Context) {
	id, err := pathID(c, "project")
	if err != nil {
		h.fail(c, "GetProjectStats", keyMessage, err)
		return
	}

	stats, err := h.stats.ProjectStats(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "GetProjectStats", keyMessage, err)
		return
	}

	h.log(c).Debug("GetProjectStats: success",
		zap.Int("id_project", id),
		zap.Int64("observations", stats.Observations),
		zap.Int64("programs", stats.Programs),
	)
	c.JSON(http.StatusOK, stats)
}
