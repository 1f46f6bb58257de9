package app

import (
	"github.com/weighbuddy/weighbuddy-backend/internal/http/handlers"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Session    *handlers.SessionHandler
	Catalog    *handlers.CatalogHandler
	Submission *handlers.SubmissionHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     handlers.NewHealthHandler(),
		Session:    handlers.NewSessionHandler(serviceset.WeighSession, serviceset.Renderer),
		Catalog:    handlers.NewCatalogHandler(serviceset.Catalog),
		Submission: handlers.NewSubmissionHandler(serviceset.Submission),
	}
}
