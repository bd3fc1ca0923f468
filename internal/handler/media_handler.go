package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MediaHandler struct {
	base
	dir string
}

func NewMediaHandler(dir string, logger *zap.Logger, opts Options) *MediaHandler {
	return &MediaHandler{base: newBase(logger, opts), dir: dir}
}

// GetMedia GET /media/:item
// Only plain file names directly under the media directory are served.
func (h *MediaHandler) GetMedia(c *gin.Context) {
	item := c.Param("item")
	if item == "" || item != filepath.Base(item) || strings.HasPrefix(item, ".") {
		h.log(c).Warn("GetMedia: rejected item", zap.String("item", item))
		c.JSON(http.StatusNotFound, gin.H{keyMessage: "Media not found"})
		return
	}

	path := filepath.Join(h.dir, item)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{keyMessage: "Media not found"})
		return
	}
	c.File(path)
}
