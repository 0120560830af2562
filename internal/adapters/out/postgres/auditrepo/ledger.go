package auditrepo

import (
	"context"

	"workshop/internal/core/domain/model/audit"

	"gorm.io/gorm"
)

// GormAuditLedger implements ports.AuditLedger. It must be built on the root
// connection pool, never on a unit-of-work transaction: every Record call opens
// and commits a transaction of its own.
type GormAuditLedger struct {
	db *gorm.DB
}

func NewGormAuditLedger(db *gorm.DB) *GormAuditLedger {
	return &GormAuditLedger{db: db}
}

func (l *GormAuditLedger) Record(ctx context.Context, entries ...audit.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(e))
	}

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&dtos).Error
	})
}
