package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/templink/internal/infrastructure/config"
	"github.com/orris-inc/templink/internal/interfaces/http/handlers/links"
	"github.com/orris-inc/templink/internal/interfaces/http/middleware"
	"github.com/orris-inc/templink/internal/interfaces/http/routes"
	"github.com/orris-inc/templink/internal/shared/logger"
	"github.com/orris-inc/templink/internal/shared/version"
)

// Router represents the HTTP router configuration
type Router struct {
	engine      *gin.Engine
	linkHandler *links.LinkHandler
	dispatcher  *middleware.TempLinkMiddleware[links.LinkRefs]
	cfg         *config.Config
	logger      logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(deps *Dependencies, cfg *config.Config, log logger.Interface) *Router {
	gin.SetMode(ginMode(cfg.Server.Mode))
	engine := gin.New()

	linkHandler := links.NewLinkHandler(
		deps.Store,
		deps.Callbacks,
		cfg.Server.BaseURL,
		cfg.TempLink.RoutePrefix,
		cfg.Snapshot.ImportCallback,
		log.Named("links"),
	)
	dispatcher := middleware.NewTempLinkMiddleware(deps.Store, cfg.Server.RedirectStatus, log.Named("dispatch"))

	return &Router{
		engine:      engine,
		linkHandler: linkHandler,
		dispatcher:  dispatcher,
		cfg:         cfg,
		logger:      log,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))

	r.engine.GET("/health", r.healthCheck)

	routes.SetupLinkRoutes(r.engine, &routes.LinkRouteConfig{
		Handler:        r.linkHandler,
		Dispatcher:     r.dispatcher,
		RoutePrefix:    r.cfg.TempLink.RoutePrefix,
		ParamName:      r.cfg.TempLink.ParamName,
		AdminEnabled:   r.cfg.Server.AdminEnabled,
		AllowedOrigins: r.cfg.Server.AllowedOrigins,
	})

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"type": "not_found", "message": "Route not found"}})
	})
}

func (r *Router) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func ginMode(mode string) string {
	switch mode {
	case gin.ReleaseMode, "production":
		return gin.ReleaseMode
	case gin.TestMode:
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
