package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/templink/internal/interfaces/http/handlers/links"
	"github.com/orris-inc/templink/internal/interfaces/http/middleware"
)

// LinkRouteConfig holds the configuration for link routes
type LinkRouteConfig struct {
	Handler        *links.LinkHandler
	Dispatcher     *middleware.TempLinkMiddleware[links.LinkRefs]
	RoutePrefix    string
	ParamName      string
	AdminEnabled   bool
	AllowedOrigins []string
}

// SetupLinkRoutes configures the public dispatch route and the admin API
func SetupLinkRoutes(engine *gin.Engine, config *LinkRouteConfig) {
	// Any method may be bound to a link, so the dispatch route accepts all of them
	dispatch := engine.Group(config.RoutePrefix)
	dispatch.Use(middleware.SecurityHeaders())
	dispatch.Any("/:"+config.ParamName, config.Dispatcher.Handle(), config.Handler.NotFound)

	if !config.AdminEnabled {
		return
	}

	api := engine.Group("/api/links")
	api.Use(middleware.CORS(config.AllowedOrigins))
	api.Use(middleware.SecurityHeaders())
	{
		// IMPORTANT: Register specific paths BEFORE parameterized paths to avoid route conflicts
		api.GET("/export", config.Handler.ExportLinks)
		api.POST("/import", config.Handler.ImportLinks)

		api.POST("", config.Handler.CreateLink)
		api.GET("/:token", config.Handler.GetLink)
		api.DELETE("/:token", config.Handler.DeleteLink)
	}
}
