package router

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "medocr/docs" // registers the OpenAPI document
	"medocr/internal/config"
	"medocr/internal/handler"
	"medocr/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	logger *slog.Logger,
	ocrH *handler.OCRHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/health", healthH.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(middleware.BodyLimit(cfg.Upload.MaxBodyBytes()))
	api.POST("/medical-ocr", ocrH.Process)
	api.POST("/medical-ocr/render", ocrH.Render)

	if dir := cfg.Server.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.StaticFile("/", filepath.Join(dir, "index.html"))
			r.Static("/static", dir)
		} else {
			logger.Info("static directory not found, UI disabled", "dir", dir)
		}
	}

	r.NoRoute(healthH.NotFound)

	return r
}
