package intervalrepo

import (
	"context"

	"workshop/internal/adapters/out/postgres/pgerr"
	"workshop/internal/core/domain/model/history"
	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormIntervalRepository implements ports.IntervalRepository using GORM.
type GormIntervalRepository struct {
	db *gorm.DB
}

func NewGormIntervalRepository(db *gorm.DB) *GormIntervalRepository {
	return &GormIntervalRepository{db: db}
}

// Add inserts an interval. A second open interval for the same order violates
// ux_stage_intervals_open and is reported as a storage conflict.
func (r *GormIntervalRepository) Add(ctx context.Context, interval *history.Interval) error {
	if err := interval.Validate(); err != nil {
		return err
	}

	dto := fromDomain(interval)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Classify("open interval", err)
	}
	return nil
}

func (r *GormIntervalRepository) Update(ctx context.Context, interval *history.Interval) error {
	if err := interval.Validate(); err != nil {
		return err
	}

	dto := fromDomain(interval)
	result := r.db.WithContext(ctx).Model(&IntervalDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"ended_at":        dto.EndedAt,
		"observation":     dto.Observation,
		"delay_reason_id": dto.DelayReasonID,
	})
	if result.Error != nil {
		return pgerr.Classify("update interval", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("interval", interval.ID().String())
	}
	return nil
}

func (r *GormIntervalRepository) FindOpen(ctx context.Context, orderID kernel.UUID) (*history.Interval, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []IntervalDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND ended_at IS NULL", orderID.Bytes()).
		Order("started_at DESC").
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Classify("find open interval", err)
	}
	if len(dtos) == 0 {
		return nil, nil
	}
	return toDomain(dtos[0])
}
