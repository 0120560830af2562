package queries

import (
	"context"
	"time"

	"workshop/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetStageHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetStageHistoryQueryHandler(db *gorm.DB) GetStageHistoryQueryHandler {
	return GetStageHistoryQueryHandler{db: db}
}

// Handle returns the intervals ordered by start time. Intervals sharing a start
// time (a clamped close) list the closed one first.
func (h GetStageHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetStageHistoryQuery,
) ([]GetStageHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orderID, err := orderIDByNumber(ctx, h.db, query.Number())
	if err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			i.id,
			i.stage_code,
			i.started_at,
			i.ended_at,
			i.observation,
			r.code,
			i.actor
		FROM stage_intervals i
		LEFT JOIN delay_reasons r ON r.id = i.delay_reason_id
		WHERE i.order_id = ?
		ORDER BY i.started_at ASC, i.ended_at ASC NULLS LAST
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]GetStageHistoryQueryResponse, 0)
	for rows.Next() {
		var (
			item      GetStageHistoryQueryResponse
			id        uuid.UUID
			startedAt time.Time
			endedAt   *time.Time
		)
		if err = rows.Scan(&id, &item.StageCode, &startedAt, &endedAt, &item.Observation, &item.DelayCode, &item.Actor); err != nil {
			return nil, err
		}
		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		item.StartedAt = startedAt.UTC()
		item.EndedAt = utcPtr(endedAt)
		history = append(history, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}
