package queries

import (
	"errors"
	"time"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/pkg/guard"
)

var ErrGetOrderStageQueryIsNotConstructed = errors.New(
	"GetOrderStageQuery must be created via NewGetOrderStageQuery constructor",
)

// GetOrderStageQuery reads where an order currently is.
type GetOrderStageQuery struct {
	number string

	guard guard.ConstructorGuard
}

func NewGetOrderStageQuery(number string) (GetOrderStageQuery, error) {
	number, err := normalizeNumber(number)
	if err != nil {
		return GetOrderStageQuery{}, err
	}
	return GetOrderStageQuery{number: number, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderStageQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStageQueryIsNotConstructed)
}

func (q GetOrderStageQuery) Number() string {
	return q.number
}

// GetOrderStageQueryResponse describes the current stage. StageSince is the
// start of the open interval and is nil when the history is inconsistent.
type GetOrderStageQueryResponse struct {
	OrderID       kernel.UUID
	Number        string
	UnitID        kernel.UUID
	StageCode     string
	StageSince    *time.Time
	WarrantyFrom  *time.Time
	WarrantyUntil *time.Time
	CreatedAt     time.Time
}
