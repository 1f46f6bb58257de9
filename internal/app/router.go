package app

import (
	"github.com/gin-gonic/gin"

	"github.com/weighbuddy/weighbuddy-backend/internal/http/middleware"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, handlerset Handlers) *gin.Engine {
	log.Info("Wiring router...")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))

	router.GET("/health", handlerset.Health.HealthCheck)

	api := router.Group("/api")
	{
		sessions := api.Group("/sessions")
		{
			sessions.POST("", handlerset.Session.Create)
			sessions.GET("/:id", handlerset.Session.Get)
			sessions.PATCH("/:id", handlerset.Session.Patch)
			sessions.POST("/:id/resolve", handlerset.Session.Resolve)
			sessions.POST("/:id/finalize", handlerset.Session.Finalize)
			sessions.GET("/:id/report", handlerset.Session.Report)
			sessions.GET("/:id/report.png", handlerset.Session.ReportPNG)
		}

		vehicles := api.Group("/vehicles")
		{
			vehicles.POST("", handlerset.Catalog.CreateVehicle)
			vehicles.GET("", handlerset.Catalog.SearchVehicles)
			vehicles.GET("/:id", handlerset.Catalog.GetVehicle)
			vehicles.PATCH("/:id/capacities", handlerset.Catalog.UpdateVehicleCapacities)
			vehicles.DELETE("/:id", handlerset.Catalog.DeleteVehicle)
		}

		caravans := api.Group("/caravans")
		{
			caravans.POST("", handlerset.Catalog.CreateCaravan)
			caravans.GET("", handlerset.Catalog.SearchCaravans)
			caravans.GET("/:id", handlerset.Catalog.GetCaravan)
			caravans.PATCH("/:id/capacities", handlerset.Catalog.UpdateCaravanCapacities)
			caravans.DELETE("/:id", handlerset.Catalog.DeleteCaravan)
		}

		submissions := api.Group("/submissions")
		{
			submissions.GET("", handlerset.Submission.List)
			submissions.GET("/:id", handlerset.Submission.Get)
		}
	}

	return router
}
