package queries

import (
	"context"
	"time"

	"workshop/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetAuditTrailQueryHandler struct {
	db *gorm.DB
}

func NewGetAuditTrailQueryHandler(db *gorm.DB) GetAuditTrailQueryHandler {
	return GetAuditTrailQueryHandler{db: db}
}

// Handle orders by timestamp descending. Entries written by the same operation
// share a timestamp and come back in reverse write order.
func (h GetAuditTrailQueryHandler) Handle(
	ctx context.Context,
	query GetAuditTrailQuery,
) ([]GetAuditTrailQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orderID, err := orderIDByNumber(ctx, h.db, query.Number())
	if err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			field,
			old_value,
			new_value,
			actor,
			recorded_at
		FROM audit_entries
		WHERE order_id = ?
		ORDER BY recorded_at DESC, seq DESC
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trail := make([]GetAuditTrailQueryResponse, 0)
	for rows.Next() {
		var (
			item       GetAuditTrailQueryResponse
			id         uuid.UUID
			recordedAt time.Time
		)
		if err = rows.Scan(&id, &item.Field, &item.OldValue, &item.NewValue, &item.Actor, &recordedAt); err != nil {
			return nil, err
		}
		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		item.RecordedAt = recordedAt.UTC()
		trail = append(trail, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return trail, nil
}
