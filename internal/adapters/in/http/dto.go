package http

import (
	"time"

	"workshop/internal/core/application/usecases/queries"
)

type NewOrderRequest struct {
	UnitID string `json:"unit_id"`
}

type NewDelayRequest struct {
	Code string `json:"code"`
	Note string `json:"note"`
}

type OpenedOrder struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

type OrderStage struct {
	ID            string     `json:"id"`
	Number        string     `json:"number"`
	UnitID        string     `json:"unit_id"`
	Stage         string     `json:"stage"`
	StageSince    *time.Time `json:"stage_since,omitempty"`
	WarrantyFrom  *string    `json:"warranty_from,omitempty"`
	WarrantyUntil *string    `json:"warranty_until,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type StageInterval struct {
	ID          string     `json:"id"`
	Stage       string     `json:"stage"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	Observation string     `json:"observation"`
	DelayCode   *string    `json:"delay_code,omitempty"`
	Actor       string     `json:"actor"`
}

type AuditEntry struct {
	ID         string    `json:"id"`
	Field      string    `json:"field"`
	OldValue   *string   `json:"old_value"`
	NewValue   *string   `json:"new_value"`
	Actor      string    `json:"actor"`
	RecordedAt time.Time `json:"recorded_at"`
}

type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func toOrderStage(r queries.GetOrderStageQueryResponse) OrderStage {
	return OrderStage{
		ID:            r.OrderID.String(),
		Number:        r.Number,
		UnitID:        r.UnitID.String(),
		Stage:         r.StageCode,
		StageSince:    r.StageSince,
		WarrantyFrom:  date(r.WarrantyFrom),
		WarrantyUntil: date(r.WarrantyUntil),
		CreatedAt:     r.CreatedAt,
	}
}

func toStageInterval(r queries.GetStageHistoryQueryResponse) StageInterval {
	return StageInterval{
		ID:          r.ID.String(),
		Stage:       r.StageCode,
		StartedAt:   r.StartedAt,
		EndedAt:     r.EndedAt,
		Observation: r.Observation,
		DelayCode:   r.DelayCode,
		Actor:       r.Actor,
	}
}

func toAuditEntry(r queries.GetAuditTrailQueryResponse) AuditEntry {
	return AuditEntry{
		ID:         r.ID.String(),
		Field:      r.Field,
		OldValue:   r.OldValue,
		NewValue:   r.NewValue,
		Actor:      r.Actor,
		RecordedAt: r.RecordedAt,
	}
}

func date(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

func toNotification(r queries.ListUnreadNotificationsQueryResponse) Notification {
	return Notification{
		ID:        r.ID.String(),
		Kind:      r.Kind,
		Title:     r.Title,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
	}
}
