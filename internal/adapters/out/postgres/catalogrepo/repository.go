package catalogrepo

import (
	"context"

	"workshop/internal/core/domain/model/delay"
	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/stage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCatalogRepository seeds and loads the reference catalogs. Catalogs are
// read once at start-up; the workflow only ever sees the immutable result.
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// SeedStages inserts missing entries. Existing codes are left untouched.
func (r *GormCatalogRepository) SeedStages(ctx context.Context, entries ...stage.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	dtos := make([]StageDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, StageDTO{Code: e.Code().String(), Sequence: e.Sequence()})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dtos).Error
}

// SeedDelayReasons inserts reasons whose code is not stored yet.
func (r *GormCatalogRepository) SeedDelayReasons(ctx context.Context, reasons ...delay.Reason) error {
	if len(reasons) == 0 {
		return nil
	}
	dtos := make([]DelayReasonDTO, 0, len(reasons))
	for _, reason := range reasons {
		dtos = append(dtos, DelayReasonDTO{
			ID:          reason.ID().Bytes(),
			Code:        reason.Code(),
			Description: reason.Description(),
		})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&dtos).Error
}

func (r *GormCatalogRepository) LoadStages(ctx context.Context) (*stage.Catalog, error) {
	var dtos []StageDTO
	if err := r.db.WithContext(ctx).Order("sequence").Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]stage.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := stage.NewEntry(stage.Code(dto.Code), dto.Sequence)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return stage.NewCatalog(entries...)
}

func (r *GormCatalogRepository) LoadDelayReasons(ctx context.Context) (*delay.Catalog, error) {
	var dtos []DelayReasonDTO
	if err := r.db.WithContext(ctx).Order("code").Find(&dtos).Error; err != nil {
		return nil, err
	}

	reasons := make([]delay.Reason, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		reason, err := delay.NewReason(id, dto.Code, dto.Description)
		if err != nil {
			return nil, err
		}
		reasons = append(reasons, reason)
	}
	return delay.NewCatalog(reasons...)
}
