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

type CaravanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, caravans []*types.Caravan) ([]*types.Caravan, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Caravan, error)
	GetByPlate(ctx context.Context, tx *gorm.DB, plate, state string) (*types.Caravan, error)
	GetByVIN(ctx context.Context, tx *gorm.DB, vin string) (*types.Caravan, error)
	SearchByMakeModel(ctx context.Context, tx *gorm.DB, make, model string, limit int) ([]*types.Caravan, error)
	UpdateCapacities(ctx context.Context, tx *gorm.DB, id uuid.UUID, atm, gtm, axleGroup, tbm float64) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type caravanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaravanRepo(db *gorm.DB, baseLog *logger.Logger) CaravanRepo {
	repoLog := baseLog.With("repo", "CaravanRepo")
	return &caravanRepo{db: db, log: repoLog}
}

func (cr *caravanRepo) Create(ctx context.Context, tx *gorm.DB, caravans []*types.Caravan) ([]*types.Caravan, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(caravans) == 0 {
		return []*types.Caravan{}, nil
	}
	now := time.Now().UTC()
	for _, c := range caravans {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.Plate = strings.ToUpper(strings.TrimSpace(c.Plate))
		c.State = strings.ToUpper(strings.TrimSpace(c.State))
		c.VIN = strings.ToUpper(strings.TrimSpace(c.VIN))
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		c.UpdatedAt = now
	}

	if err := transaction.WithContext(ctx).Create(&caravans).Error; err != nil {
		return nil, err
	}
	return caravans, nil
}

func (cr *caravanRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Caravan, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Caravan
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *caravanRepo) GetByPlate(ctx context.Context, tx *gorm.DB, plate, state string) (*types.Caravan, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Caravan
	if err := transaction.WithContext(ctx).
		Where("plate = ? AND state = ?",
			strings.ToUpper(strings.TrimSpace(plate)),
			strings.ToUpper(strings.TrimSpace(state))).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *caravanRepo) GetByVIN(ctx context.Context, tx *gorm.DB, vin string) (*types.Caravan, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Caravan
	if err := transaction.WithContext(ctx).
		Where("vin = ?", strings.ToUpper(strings.TrimSpace(vin))).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *caravanRepo) SearchByMakeModel(ctx context.Context, tx *gorm.DB, make, model string, limit int) ([]*types.Caravan, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	q := transaction.WithContext(ctx).Model(&types.Caravan{})
	if make != "" {
		q = q.Where("lower(make) = ?", strings.ToLower(strings.TrimSpace(make)))
	}
	if model != "" {
		q = q.Where("lower(model) LIKE ?", strings.ToLower(strings.TrimSpace(model))+"%")
	}

	var results []*types.Caravan
	if err := q.Order("make, model, year").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *caravanRepo) UpdateCapacities(ctx context.Context, tx *gorm.DB, id uuid.UUID, atm, gtm, axleGroup, tbm float64) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Caravan{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"atm":             atm,
			"gtm":             gtm,
			"axle_group_load": axleGroup,
			"tbm":             tbm,
			"updated_at":      time.Now().UTC(),
		}).Error
}

func (cr *caravanRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Caravan{}).Error
}
