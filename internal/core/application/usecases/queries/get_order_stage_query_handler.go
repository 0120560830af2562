package queries

import (
	"context"
	"time"

	"workshop/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOrderStageQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderStageQueryHandler(db *gorm.DB) GetOrderStageQueryHandler {
	return GetOrderStageQueryHandler{db: db}
}

func (h GetOrderStageQueryHandler) Handle(ctx context.Context, query GetOrderStageQuery) (GetOrderStageQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderStageQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.number,
			o.unit_id,
			o.stage_code,
			i.started_at,
			o.warranty_from,
			o.warranty_until,
			o.created_at
		FROM work_orders o
		LEFT JOIN stage_intervals i ON i.order_id = o.id AND i.ended_at IS NULL
		WHERE o.number = ?
	`, query.Number()).Rows()
	if err != nil {
		return GetOrderStageQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetOrderStageQueryResponse{}, err
		}
		return GetOrderStageQueryResponse{}, notFound(query.Number())
	}

	var (
		resp        GetOrderStageQueryResponse
		id, unitID  uuid.UUID
		since       *time.Time
		from, until *time.Time
		createdAt   time.Time
	)
	if err = rows.Scan(&id, &resp.Number, &unitID, &resp.StageCode, &since, &from, &until, &createdAt); err != nil {
		return GetOrderStageQueryResponse{}, err
	}

	if resp.OrderID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderStageQueryResponse{}, err
	}
	if resp.UnitID, err = kernel.UUIDFromBytes(unitID[:]); err != nil {
		return GetOrderStageQueryResponse{}, err
	}
	resp.StageSince = utcPtr(since)
	resp.WarrantyFrom = utcPtr(from)
	resp.WarrantyUntil = utcPtr(until)
	resp.CreatedAt = createdAt.UTC()

	return resp, rows.Err()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
