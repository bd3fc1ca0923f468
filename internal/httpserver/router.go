package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gncitizen/internal/handler"
	"gncitizen/pkg/otel"
	"gncitizen/pkg/rbac"
)

// Pinger is the readiness probe target.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type breakerReporter interface {
	BreakerState() string
}

// Handlers groups the route handlers.
type Handlers struct {
	Modules  *handler.ModuleHandler
	Projects *handler.ProjectHandler
	Programs *handler.ProgramHandler
	Stats    *handler.StatsHandler
	Media    *handler.MediaHandler
	Upload   *handler.UploadHandler
}

func NewRouter(h Handlers, logger *zap.Logger, db Pinger, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(otel.GinMiddleware())
	r.Use(RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(503, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		body := gin.H{"status": "ready"}
		if br, ok := db.(breakerReporter); ok {
			body["db_breaker"] = br.BreakerState()
		}
		c.JSON(200, body)
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/stats", h.Stats.GetStats)
	r.GET("/modules", h.Modules.ListModules)
	r.GET("/modules/:id", h.Modules.GetModule)
	r.GET("/projects", h.Projects.ListProjects)
	r.GET("/projects/:id/programs", h.Projects.GetProjectPrograms)
	r.GET("/projects/:id/stats", h.Stats.GetProjectStats)
	r.GET("/programs", h.Programs.ListPrograms)
	r.GET("/programs/:id", h.Programs.GetProgram)
	r.GET("/programs/:id/customform", h.Programs.GetProgramCustomForm)
	r.GET("/programs/:id/customform/", h.Programs.GetProgramCustomForm)
	r.GET("/customform/:id", h.Programs.GetCustomForm)
	r.GET("/media/:item", h.Media.GetMedia)

	admin := r.Group("/admin")
	admin.Use(AuthMiddleware(jwtSecret))
	{
		admin.GET("/upload", RequirePermission(logger, rbac.PermissionViewImportForm), h.Upload.GetUploadForm)
		admin.POST("/upload", RequirePermission(logger, rbac.PermissionImportSites), h.Upload.UploadGeoJSON)
	}

	return r
}
