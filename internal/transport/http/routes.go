// Package http assembles the gin engine and registers every inbound
// operation under /api/v1/projects/:project (§8.2).
package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/application/planservice"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/cache"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/events"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/transport/http/handler"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/transport/http/middleware"
	"github.com/jmoiron/sqlx"
)

// NewRouter builds the gin engine with every plan-lifecycle route
// wired to the orchestration service (§6 "Inbound operations").
func NewRouter(service *planservice.Service, db *sqlx.DB, c *cache.Cache, publisher events.Publisher, log *zap.Logger) *gin.Engine {
	planHandler := handler.NewPlanHandler(service, log)
	scenarioHandler := handler.NewScenarioHandler(service, log)
	healthHandler := handler.NewHealthHandler(db, c, publisher)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	projects := router.Group("/api/v1/projects/:project")
	{
		projects.POST("/optimize", planHandler.Optimize)
		projects.POST("/materialize", planHandler.Materialize)

		projects.GET("/scenarios", scenarioHandler.List)
		projects.POST("/scenarios", scenarioHandler.Create)
		projects.DELETE("/scenarios/:id", scenarioHandler.Delete)
		projects.POST("/scenarios/:id/reload", scenarioHandler.Reload)
		projects.PATCH("/scenarios/:id/stops/:stopId/location", scenarioHandler.MoveStop)
		projects.PUT("/scenarios/:id/reorder", scenarioHandler.Reorder)
	}

	return router
}
