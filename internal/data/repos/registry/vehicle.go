package registry

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/weighbuddy/weighbuddy-backend/internal/domain/registry"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/logger"
)

type VehicleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, vehicles []*types.Vehicle) ([]*types.Vehicle, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Vehicle, error)
	GetByPlate(ctx context.Context, tx *gorm.DB, plate, state string) (*types.Vehicle, error)
	GetByVIN(ctx context.Context, tx *gorm.DB, vin string) (*types.Vehicle, error)
	SearchByMakeModel(ctx context.Context, tx *gorm.DB, make, model string, limit int) ([]*types.Vehicle, error)
	UpdateCapacities(ctx context.Context, tx *gorm.DB, id uuid.UUID, gvm, gcm, fawr, rawr, btc float64) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type vehicleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVehicleRepo(db *gorm.DB, baseLog *logger.Logger) VehicleRepo {
	repoLog := baseLog.With("repo", "VehicleRepo")
	return &vehicleRepo{db: db, log: repoLog}
}

func (vr *vehicleRepo) Create(ctx context.Context, tx *gorm.DB, vehicles []*types.Vehicle) ([]*types.Vehicle, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	if len(vehicles) == 0 {
		return []*types.Vehicle{}, nil
	}
	now := time.Now().UTC()
	for _, v := range vehicles {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		v.Plate = strings.ToUpper(strings.TrimSpace(v.Plate))
		v.State = strings.ToUpper(strings.TrimSpace(v.State))
		v.VIN = strings.ToUpper(strings.TrimSpace(v.VIN))
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now
		}
		v.UpdatedAt = now
	}

	if err := transaction.WithContext(ctx).Create(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (vr *vehicleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Vehicle, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var result types.Vehicle
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (vr *vehicleRepo) GetByPlate(ctx context.Context, tx *gorm.DB, plate, state string) (*types.Vehicle, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var result types.Vehicle
	if err := transaction.WithContext(ctx).
		Where("plate = ? AND state = ?",
			strings.ToUpper(strings.TrimSpace(plate)),
			strings.ToUpper(strings.TrimSpace(state))).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (vr *vehicleRepo) GetByVIN(ctx context.Context, tx *gorm.DB, vin string) (*types.Vehicle, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var result types.Vehicle
	if err := transaction.WithContext(ctx).
		Where("vin = ?", strings.ToUpper(strings.TrimSpace(vin))).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (vr *vehicleRepo) SearchByMakeModel(ctx context.Context, tx *gorm.DB, make, model string, limit int) ([]*types.Vehicle, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	q := transaction.WithContext(ctx).Model(&types.Vehicle{})
	if make != "" {
		q = q.Where("lower(make) = ?", strings.ToLower(strings.TrimSpace(make)))
	}
	if model != "" {
		q = q.Where("lower(model) LIKE ?", strings.ToLower(strings.TrimSpace(model))+"%")
	}

	var results []*types.Vehicle
	if err := q.Order("make, model, year").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (vr *vehicleRepo) UpdateCapacities(ctx context.Context, tx *gorm.DB, id uuid.UUID, gvm, gcm, fawr, rawr, btc float64) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Vehicle{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"gvm":        gvm,
			"gcm":        gcm,
			"fawr":       fawr,
			"rawr":       rawr,
			"btc":        btc,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (vr *vehicleRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Vehicle{}).Error
}
