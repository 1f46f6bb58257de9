package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/weighbuddy/weighbuddy-backend/internal/data/repos"
	registrytypes "github.com/weighbuddy/weighbuddy-backend/internal/domain/registry"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
)

// CatalogService manages the reference registry of vehicle and caravan
// master records that plate resolution draws from.
type CatalogService interface {
	CreateVehicle(ctx context.Context, v *registrytypes.Vehicle) (*registrytypes.Vehicle, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*registrytypes.Vehicle, error)
	SearchVehicles(ctx context.Context, make, model string, limit int) ([]*registrytypes.Vehicle, error)
	UpdateVehicleCapacities(ctx context.Context, id uuid.UUID, gvm, gcm, fawr, rawr, btc float64) error
	DeleteVehicle(ctx context.Context, id uuid.UUID) error

	CreateCaravan(ctx context.Context, c *registrytypes.Caravan) (*registrytypes.Caravan, error)
	GetCaravan(ctx context.Context, id uuid.UUID) (*registrytypes.Caravan, error)
	SearchCaravans(ctx context.Context, make, model string, limit int) ([]*registrytypes.Caravan, error)
	UpdateCaravanCapacities(ctx context.Context, id uuid.UUID, atm, gtm, axleGroup, tbm float64) error
	DeleteCaravan(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	db          *gorm.DB
	log         *logger.Logger
	vehicleRepo repos.VehicleRepo
	caravanRepo repos.CaravanRepo
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	vehicleRepo repos.VehicleRepo,
	caravanRepo repos.CaravanRepo,
) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:          db,
		log:         serviceLog,
		vehicleRepo: vehicleRepo,
		caravanRepo: caravanRepo,
	}
}

func (cs *catalogService) CreateVehicle(ctx context.Context, v *registrytypes.Vehicle) (*registrytypes.Vehicle, error) {
	if v.Make == "" || v.Model == "" {
		return nil, fmt.Errorf("make and model required")
	}
	created, err := cs.vehicleRepo.Create(ctx, nil, []*registrytypes.Vehicle{v})
	if err != nil {
		return nil, err
	}
	cs.log.Info("vehicle record created", "vehicle_id", created[0].ID, "plate", created[0].Plate)
	return created[0], nil
}

func (cs *catalogService) GetVehicle(ctx context.Context, id uuid.UUID) (*registrytypes.Vehicle, error) {
	return cs.vehicleRepo.GetByID(ctx, nil, id)
}

func (cs *catalogService) SearchVehicles(ctx context.Context, make, model string, limit int) ([]*registrytypes.Vehicle, error) {
	return cs.vehicleRepo.SearchByMakeModel(ctx, nil, make, model, limit)
}

func (cs *catalogService) UpdateVehicleCapacities(ctx context.Context, id uuid.UUID, gvm, gcm, fawr, rawr, btc float64) error {
	return cs.vehicleRepo.UpdateCapacities(ctx, nil, id, gvm, gcm, fawr, rawr, btc)
}

func (cs *catalogService) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	return cs.vehicleRepo.Delete(ctx, nil, id)
}

func (cs *catalogService) CreateCaravan(ctx context.Context, c *registrytypes.Caravan) (*registrytypes.Caravan, error) {
	if c.Make == "" || c.Model == "" {
		return nil, fmt.Errorf("make and model required")
	}
	created, err := cs.caravanRepo.Create(ctx, nil, []*registrytypes.Caravan{c})
	if err != nil {
		return nil, err
	}
	cs.log.Info("caravan record created", "caravan_id", created[0].ID, "plate", created[0].Plate)
	return created[0], nil
}

func (cs *catalogService) GetCaravan(ctx context.Context, id uuid.UUID) (*registrytypes.Caravan, error) {
	return cs.caravanRepo.GetByID(ctx, nil, id)
}

func (cs *catalogService) SearchCaravans(ctx context.Context, make, model string, limit int) ([]*registrytypes.Caravan, error) {
	return cs.caravanRepo.SearchByMakeModel(ctx, nil, make, model, limit)
}

func (cs *catalogService) UpdateCaravanCapacities(ctx context.Context, id uuid.UUID, atm, gtm, axleGroup, tbm float64) error {
	return cs.caravanRepo.UpdateCapacities(ctx, nil, id, atm, gtm, axleGroup, tbm)
}

func (cs *catalogService) DeleteCaravan(ctx context.Context, id uuid.UUID) error {
	return cs.caravanRepo.Delete(ctx, nil, id)
}
