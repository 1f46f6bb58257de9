package app

import (
	"gorm.io/gorm"

	"github.com/weighbuddy/weighbuddy-backend/internal/data/repos"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
)

type Repos struct {
	Vehicle    repos.VehicleRepo
	Caravan    repos.CaravanRepo
	Submission repos.SubmissionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Vehicle:    repos.NewVehicleRepo(db, log),
		Caravan:    repos.NewCaravanRepo(db, log),
		Submission: repos.NewSubmissionRepo(db, log),
	}
}
