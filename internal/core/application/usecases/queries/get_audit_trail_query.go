package queries

import (
	"errors"
	"time"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/pkg/guard"
)

var ErrGetAuditTrailQueryIsNotConstructed = errors.New(
	"GetAuditTrailQuery must be created via NewGetAuditTrailQuery constructor",
)

// GetAuditTrailQuery lists the audit entries of an order, newest first.
type GetAuditTrailQuery struct {
	number string

	guard guard.ConstructorGuard
}

func NewGetAuditTrailQuery(number string) (GetAuditTrailQuery, error) {
	number, err := normalizeNumber(number)
	if err != nil {
		return GetAuditTrailQuery{}, err
	}
	return GetAuditTrailQuery{number: number, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAuditTrailQuery) Validate() error {
	return q.guard.Validate(ErrGetAuditTrailQueryIsNotConstructed)
}

func (q GetAuditTrailQuery) Number() string {
	return q.number
}

type GetAuditTrailQueryResponse struct {
	ID         kernel.UUID
	Field      string
	OldValue   *string
	NewValue   *string
	Actor      string
	RecordedAt time.Time
}
