// Package orderrepo persists work orders in the work_orders table.
package orderrepo

import (
	"time"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/order"
	"workshop/internal/core/domain/model/stage"

	"github.com/google/uuid"
)

// OrderDTO is the row shape of work_orders. The current stage is stored as its
// code; PIEZA_IRREPARABLE restores the branch state.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number        string     `gorm:"size:32;not null;uniqueIndex"`
	UnitID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	StageCode     string     `gorm:"size:32;not null;index"`
	WarrantyFrom  *time.Time `gorm:"type:date"`
	WarrantyUntil *time.Time `gorm:"type:date"`
	CreatedAt     time.Time  `gorm:"not null"`
}

func (OrderDTO) TableName() string {
	return "work_orders"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:            o.ID().Bytes(),
		Number:        o.Number(),
		UnitID:        o.UnitID().Bytes(),
		StageCode:     o.StageCode().String(),
		WarrantyFrom:  o.WarrantyFrom(),
		WarrantyUntil: o.WarrantyUntil(),
		CreatedAt:     o.CreatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	unitID, err := kernel.UUIDFromBytes(dto.UnitID[:])
	if err != nil {
		return nil, err
	}
	state, err := stage.StateFromCode(dto.StageCode)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, dto.Number, unitID, state, utc(dto.WarrantyFrom), utc(dto.WarrantyUntil), dto.CreatedAt.UTC())
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
