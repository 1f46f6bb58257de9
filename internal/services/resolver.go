package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/weighbuddy/weighbuddy-backend/internal/clients/regcheck"
	"github.com/weighbuddy/weighbuddy-backend/internal/data/repos"
	"github.com/weighbuddy/weighbuddy-backend/internal/domain/weigh"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
)

// ErrNoMatch means the unit could not be resolved: both lookups
// missed, or a lookup source was unavailable. The caller falls through
// to manual capacity entry either way; an outage never reaches the
// operator as a hard error.
var ErrNoMatch = errors.New("no registry match")

// ResolverService turns a plate or VIN into an entity with rated
// capacities. The internal registry is checked first; vehicles
// additionally fall back to the state registration feed. Caravans have
// no feed, and VIN lookups are registry-only.
type ResolverService interface {
	ResolveVehicle(ctx context.Context, plate, state, vin string) (*weigh.Entity, error)
	ResolveCaravan(ctx context.Context, plate, state, vin string) (*weigh.Entity, error)
}

type resolverService struct {
	db          *gorm.DB
	log         *logger.Logger
	vehicleRepo repos.VehicleRepo
	caravanRepo repos.CaravanRepo
	feed        regcheck.Client
}

// NewResolverService wires the resolver. feed may be nil when no
// external lookup is configured; resolution then uses the registry only.
func NewResolverService(
	db *gorm.DB,
	log *logger.Logger,
	vehicleRepo repos.VehicleRepo,
	caravanRepo repos.CaravanRepo,
	feed regcheck.Client,
) ResolverService {
	serviceLog := log.With("service", "ResolverService")
	return &resolverService{
		db:          db,
		log:         serviceLog,
		vehicleRepo: vehicleRepo,
		caravanRepo: caravanRepo,
		feed:        feed,
	}
}

func (rs *resolverService) ResolveVehicle(ctx context.Context, plate, state, vin string) (*weigh.Entity, error) {
	if vin != "" && plate == "" {
		row, err := rs.vehicleRepo.GetByVIN(ctx, nil, vin)
		if err == nil {
			return row.Entity(weigh.SourceInternalRegistry), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			// A registry outage must not strand the session; the
			// operator falls through to manual entry.
			rs.log.Warn("registry lookup failed", "vin", vin, "error", err)
		}
		return nil, ErrNoMatch
	}
	if plate == "" || state == "" {
		return nil, fmt.Errorf("plate and state required")
	}

	row, err := rs.vehicleRepo.GetByPlate(ctx, nil, plate, state)
	if err == nil {
		return row.Entity(weigh.SourceInternalRegistry), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		rs.log.Warn("registry lookup failed", "state", state, "plate", plate, "error", err)
		return nil, ErrNoMatch
	}

	if rs.feed == nil {
		return nil, ErrNoMatch
	}
	ent, err := rs.feed.LookupVehicle(ctx, plate, state)
	if errors.Is(err, regcheck.ErrNotFound) {
		return nil, ErrNoMatch
	}
	if err != nil {
		// Feed outages must not strand the session; the operator can
		// still key the plate ratings in by hand.
		rs.log.Warn("external feed lookup failed", "state", state, "plate", plate, "error", err)
		return nil, ErrNoMatch
	}
	return ent, nil
}

func (rs *resolverService) ResolveCaravan(ctx context.Context, plate, state, vin string) (*weigh.Entity, error) {
	if vin != "" && plate == "" {
		row, err := rs.caravanRepo.GetByVIN(ctx, nil, vin)
		if err == nil {
			return row.Entity(weigh.SourceInternalRegistry), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			rs.log.Warn("registry lookup failed", "vin", vin, "error", err)
		}
		return nil, ErrNoMatch
	}
	if plate == "" || state == "" {
		return nil, fmt.Errorf("plate and state required")
	}

	row, err := rs.caravanRepo.GetByPlate(ctx, nil, plate, state)
	if err == nil {
		return row.Entity(weigh.SourceInternalRegistry), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		rs.log.Warn("registry lookup failed", "state", state, "plate", plate, "error", err)
	}
	return nil, ErrNoMatch
}
