package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/acadsync/gradebook-api/api/swagger"
	"github.com/acadsync/gradebook-api/internal/handler"
	"github.com/acadsync/gradebook-api/internal/middleware"
	"github.com/acadsync/gradebook-api/internal/repository"
	"github.com/acadsync/gradebook-api/internal/service"
	"github.com/acadsync/gradebook-api/pkg/cache"
	"github.com/acadsync/gradebook-api/pkg/config"
	"github.com/acadsync/gradebook-api/pkg/database"
	"github.com/acadsync/gradebook-api/pkg/logger"
	corsmiddleware "github.com/acadsync/gradebook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acadsync/gradebook-api/pkg/middleware/requestid"
	"github.com/acadsync/gradebook-api/pkg/spreadsheet"
)

// @title Gradebook API
// @version 1.0.0
// @description Grade synthesis and idempotent spreadsheet export engine
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	sheets, err := spreadsheet.NewLocalStore(cfg.Sheets.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare spreadsheet storage", "error", err)
	}

	sectionRepo := repository.NewSectionRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	gradeRepo := repository.NewComputedGradeRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	resolver := service.NewSheetResolver(sheets, service.SheetResolverConfig{
		HubDocumentID: cfg.Sheets.HubDocumentID,
		TitleMaxLen:   cfg.Sheets.TitleMaxLen,
	}, logr)
	exportSvc := service.NewSheetExportService(
		sectionRepo,
		activityRepo,
		scoreRepo,
		gradeRepo,
		resolver,
		sheets,
		cacheRepo,
		metricsSvc,
		service.SheetExportConfig{
			FolderID:     cfg.Sheets.FolderID,
			ShareEmail:   cfg.Sheets.ShareEmail,
			PublicAccess: cfg.Sheets.PublicAccess,
		},
		nil,
		logr,
	)
	summarySvc := service.NewGradeSummaryService(sectionRepo, gradeRepo, cacheRepo, cfg.Grades.CacheTTL, logr)
	sheetSvc := service.NewGradeSheetService(sectionRepo, activityRepo, scoreRepo, nil, nil, logr)

	exportHandler := handler.NewExportHandler(exportSvc, summarySvc, sheetSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "postgres"})
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "redis"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))
	{
		sections := api.Group("/sections")
		sections.POST("/:id/export-sheet", exportHandler.ExportSheet)
		sections.GET("/:id/grades", exportHandler.SectionGrades)
		sections.GET("/:id/grade-sheet.pdf", exportHandler.GradeSheetPDF)
		sections.GET("/:id/grade-sheet.csv", exportHandler.GradeSheetCSV)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
