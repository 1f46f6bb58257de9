package app

import (
	"gorm.io/gorm"

	"github.com/weighbuddy/weighbuddy-backend/internal/clients/redis"
	"github.com/weighbuddy/weighbuddy-backend/internal/clients/regcheck"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
	"github.com/weighbuddy/weighbuddy-backend/internal/report"
	"github.com/weighbuddy/weighbuddy-backend/internal/services"
)

type Services struct {
	Resolver     services.ResolverService
	WeighSession services.WeighSessionService
	Catalog      services.CatalogService
	Submission   services.SubmissionService

	SessionStore redis.SessionStore
	Renderer     *report.Renderer
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	var store redis.SessionStore
	if cfg.RedisAddr != "" {
		s, err := redis.NewSessionStore(log, cfg.SessionTTL)
		if err != nil {
			return Services{}, err
		}
		store = s
	} else {
		log.Warn("REDIS_ADDR not set, sessions are in-process only")
		store = redis.NewMemorySessionStore()
	}

	var feed regcheck.Client
	if f, err := regcheck.NewFromEnv(log); err != nil {
		log.Warn("registration feed disabled", "error", err)
	} else {
		feed = f
	}

	renderer, err := report.NewRenderer(log)
	if err != nil {
		return Services{}, err
	}

	resolver := services.NewResolverService(db, log, reposet.Vehicle, reposet.Caravan, feed)
	weighSession := services.NewWeighSessionService(db, log, store, resolver, reposet.Submission)
	catalog := services.NewCatalogService(db, log, reposet.Vehicle, reposet.Caravan)
	submission := services.NewSubmissionService(db, log, reposet.Submission)

	return Services{
		Resolver:     resolver,
		WeighSession: weighSession,
		Catalog:      catalog,
		Submission:   submission,
		SessionStore: store,
		Renderer:     renderer,
	}, nil
}
