package queries

import (
	"errors"
	"time"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/pkg/guard"
)

var ErrGetStageHistoryQueryIsNotConstructed = errors.New(
	"GetStageHistoryQuery must be created via NewGetStageHistoryQuery constructor",
)

// GetStageHistoryQuery lists every interval of an order, oldest first.
type GetStageHistoryQuery struct {
	number string

	guard guard.ConstructorGuard
}

func NewGetStageHistoryQuery(number string) (GetStageHistoryQuery, error) {
	number, err := normalizeNumber(number)
	if err != nil {
		return GetStageHistoryQuery{}, err
	}
	return GetStageHistoryQuery{number: number, guard: guard.NewConstructorGuard()}, nil
}

func (q GetStageHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetStageHistoryQueryIsNotConstructed)
}

func (q GetStageHistoryQuery) Number() string {
	return q.number
}

// GetStageHistoryQueryResponse is one interval. EndedAt is nil for the open one.
// DelayCode is the code of the last delay annotated on the interval, if any.
type GetStageHistoryQueryResponse struct {
	ID          kernel.UUID
	StageCode   string
	StartedAt   time.Time
	EndedAt     *time.Time
	Observation string
	DelayCode   *string
	Actor       string
}
