// Package auditrepo stores the append-only audit trail.
package auditrepo

import (
	"time"

	"workshop/internal/core/domain/model/audit"

	"github.com/google/uuid"
)

// EntryDTO is the row shape of audit_entries. There is deliberately no foreign
// key to work_orders: the ledger writes outside the business transaction.
// Seq orders entries written with the same timestamp.
type EntryDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int64     `gorm:"autoIncrement;not null"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index:ix_audit_entries_order,priority:1"`
	Field      string    `gorm:"size:32;not null"`
	OldValue   *string   `gorm:"type:text"`
	NewValue   *string   `gorm:"type:text"`
	Actor      string    `gorm:"size:128;not null"`
	RecordedAt time.Time `gorm:"not null;index:ix_audit_entries_order,priority:2"`
}

func (EntryDTO) TableName() string {
	return "audit_entries"
}

func fromDomain(e audit.Entry) EntryDTO {
	return EntryDTO{
		ID:         e.ID().Bytes(),
		OrderID:    e.OrderID().Bytes(),
		Field:      string(e.Field()),
		OldValue:   e.OldValue(),
		NewValue:   e.NewValue(),
		Actor:      e.Actor(),
		RecordedAt: e.RecordedAt(),
	}
}
