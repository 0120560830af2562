// Package intervalrepo persists stage history intervals in stage_intervals.
package intervalrepo

import (
	"time"

	"workshop/internal/core/domain/model/history"
	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/stage"

	"github.com/google/uuid"
)

// IntervalDTO is the row shape of stage_intervals. At most one row per order
// has a NULL ended_at; see OpenIntervalIndexSQL.
type IntervalDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;index"`
	StageCode     string    `gorm:"size:32;not null"`
	StartedAt     time.Time `gorm:"not null"`
	EndedAt       *time.Time
	Observation   string     `gorm:"type:text;not null;default:''"`
	DelayReasonID *uuid.UUID `gorm:"type:uuid"`
	Actor         string     `gorm:"size:128;not null"`
}

func (IntervalDTO) TableName() string {
	return "stage_intervals"
}

// OpenIntervalIndexSQL creates the partial unique index guarding the single
// open interval per order.
const OpenIntervalIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS ux_stage_intervals_open
	ON stage_intervals (order_id) WHERE ended_at IS NULL`

func fromDomain(i *history.Interval) IntervalDTO {
	dto := IntervalDTO{
		ID:          i.ID().Bytes(),
		OrderID:     i.OrderID().Bytes(),
		StageCode:   i.StageCode().String(),
		StartedAt:   i.StartedAt(),
		EndedAt:     i.EndedAt(),
		Observation: i.Observation(),
		Actor:       i.Actor(),
	}
	if reasonID := i.DelayReasonID(); reasonID != nil {
		raw := reasonID.Bytes()
		dto.DelayReasonID = &raw
	}
	return dto
}

func toDomain(dto IntervalDTO) (*history.Interval, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var reasonID *kernel.UUID
	if dto.DelayReasonID != nil {
		rID, reasonErr := kernel.UUIDFromBytes((*dto.DelayReasonID)[:])
		if reasonErr != nil {
			return nil, reasonErr
		}
		reasonID = &rID
	}

	var endedAt *time.Time
	if dto.EndedAt != nil {
		e := dto.EndedAt.UTC()
		endedAt = &e
	}

	return history.RestoreInterval(
		id, orderID, stage.Code(dto.StageCode), dto.StartedAt.UTC(), endedAt, dto.Observation, reasonID, dto.Actor,
	)
}
