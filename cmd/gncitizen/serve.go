package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gncitizen/internal/config"
	"gncitizen/internal/handler"
	"gncitizen/internal/httpserver"
	"gncitizen/internal/repository"
	"gncitizen/internal/service/siteimport"
	"gncitizen/pkg/db"
	"gncitizen/pkg/otel"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			if opts.env != "local" {
				gin.SetMode(gin.ReleaseMode)
			}
			return serve(cmd.Context(), opts.env, cfg, log)
		},
	}
}

func serve(ctx context.Context, env string, cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting gncitizen API...",
		zap.String("db_driver", cfg.DB.Driver),
		zap.String("port", cfg.Server.Port),
		zap.Bool("legacy_error_status", cfg.Server.LegacyErrorStatus),
	)

	shutdownTracing, err := otel.Init(cfg.OTel, env, log)
	if err != nil {
		return err
	}
	defer shutdownTracing()

	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	moduleRepo := repository.NewModuleRepository(dbConn, log)
	projectRepo := repository.NewProjectRepository(dbConn, log)
	programRepo := repository.NewProgramRepository(dbConn, log)
	formRepo := repository.NewCustomFormRepository(dbConn, log)
	statsRepo := repository.NewStatsRepository(dbConn, log)
	siteRepo := repository.NewSiteRepository(dbConn, log)

	importService := siteimport.NewService(programRepo, siteRepo, log)

	hopts := handler.Options{LegacyErrorStatus: cfg.Server.LegacyErrorStatus}
	router := httpserver.NewRouter(httpserver.Handlers{
		Modules:  handler.NewModuleHandler(moduleRepo, log, hopts),
		Projects: handler.NewProjectHandler(projectRepo, programRepo, log, hopts),
		Programs: handler.NewProgramHandler(programRepo, formRepo, log, hopts),
		Stats:    handler.NewStatsHandler(statsRepo, log, hopts),
		Media:    handler.NewMediaHandler(cfg.Media.Dir, log, hopts),
		Upload:   handler.NewUploadHandler(programRepo, siteRepo, importService, log, hopts),
	}, log, dbConn, cfg.JWT.Secret)

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("HTTP server stopped with error", zap.Error(err))
		return err
	}
	log.Info("gncitizen API shutdown complete")
	return nil
}
