package repos

import (
	"gorm.io/gorm"

	"github.com/weighbuddy/weighbuddy-backend/internal/data/repos/registry"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
)

type VehicleRepo = registry.VehicleRepo
type CaravanRepo = registry.CaravanRepo
type SubmissionRepo = registry.SubmissionRepo

func NewVehicleRepo(db *gorm.DB, baseLog *logger.Logger) VehicleRepo {
	return registry.NewVehicleRepo(db, baseLog)
}

func NewCaravanRepo(db *gorm.DB, baseLog *logger.Logger) CaravanRepo {
	return registry.NewCaravanRepo(db, baseLog)
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return registry.NewSubmissionRepo(db, baseLog)
}
