package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gncitizen/internal/model"
	"gncitizen/internal/service/siteimport"
)

// maxUploadSize bounds the GeoJSON file read into memory.
const maxUploadSize = 20 << 20

var allowedUploadExtensions = map[string]bool{
	"json":    true,
	"geojson": true,
}

type SiteTypeStore interface {
	ListTypes(ctx context.Context) ([]model.SiteType, error)
}

type SiteImporter interface {
	Import(ctx context.Context, req siteimport.Request) ([]model.Site, error)
}

type UploadHandler struct {
	base
	programs  ProgramStore
	siteTypes SiteTypeStore
	importer  SiteImporter
}

func NewUploadHandler(programs ProgramStore, siteTypes SiteTypeStore, importer SiteImporter, logger *zap.Logger, opts Options) *UploadHandler {
	return &UploadHandler{
		base:      newBase(logger, opts),
		programs:  programs,
		siteTypes: siteTypes,
		importer:  importer,
	}
}

// GetUploadForm GET /admin/upload
// Lists the programs and site types an import can target.
func (h *UploadHandler) GetUploadForm(c *gin.Context) {
	ctx := c.Request.Context()

	programs, err := h.programs.ListAll(ctx)
	if err != nil {
		h.fail(c, "GetUploadForm", keyMessage, err)
		return
	}
	siteTypes, err := h.siteTypes.ListTypes(ctx)
	if err != nil {
		h.fail(c, "GetUploadForm", keyMessage, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"programs":   programs,
		"site_types": siteTypes,
	})
}

// UploadGeoJSON POST /admin/upload
// Multipart form: file, feature_name, program, site_type (optional).
func (h *UploadHandler) UploadGeoJSON(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{keyMessage: "No file part"})
		return
	}
	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{keyMessage: "No selected file"})
		return
	}
	if !allowedFile(fileHeader.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{keyMessage: "Only .json and .geojson files are accepted"})
		return
	}

	programID, err := strconv.Atoi(c.PostForm("program"))
	if err != nil || programID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{keyMessage: "invalid program"})
		return
	}

	req := siteimport.Request{
		ProgramID:   programID,
		FeatureName: c.PostForm("feature_name"),
	}
	if raw := c.PostForm("site_type"); raw != "" {
		siteType, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{keyMessage: "invalid site_type"})
			return
		}
		req.SiteTypeID = &siteType
	}

	req.Data, err = readUpload(fileHeader)
	if err != nil {
		h.fail(c, "UploadGeoJSON", keyMessage, err)
		return
	}

	sites, err := h.importer.Import(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "UploadGeoJSON", keyMessage, err)
		return
	}

	h.log(c).Info("UploadGeoJSON: success",
		zap.String("filename", fileHeader.Filename),
		zap.Int("id_program", programID),
		zap.Int("imported", len(sites)),
	)
	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"imported": len(sites),
	})
}

func allowedFile(filename string) bool {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	return allowedUploadExtensions[strings.ToLower(ext)]
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxUploadSize {
		return nil, fmt.Errorf("%w: file larger than %d bytes", siteimport.ErrInvalidImport, maxUploadSize)
	}
	return data, nil
}
