package queries

import (
	"errors"
	"time"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/pkg/guard"
)

// UnreadNotificationsLimit caps the inbox listing.
const UnreadNotificationsLimit = 20

var ErrListUnreadNotificationsQueryIsNotConstructed = errors.New(
	"ListUnreadNotificationsQuery must be created via NewListUnreadNotificationsQuery constructor",
)

// ListUnreadNotificationsQuery reads the in-app inbox of an order, newest first.
type ListUnreadNotificationsQuery struct {
	number string

	guard guard.ConstructorGuard
}

func NewListUnreadNotificationsQuery(number string) (ListUnreadNotificationsQuery, error) {
	number, err := normalizeNumber(number)
	if err != nil {
		return ListUnreadNotificationsQuery{}, err
	}
	return ListUnreadNotificationsQuery{number: number, guard: guard.NewConstructorGuard()}, nil
}

func (q ListUnreadNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrListUnreadNotificationsQueryIsNotConstructed)
}

func (q ListUnreadNotificationsQuery) Number() string {
	return q.number
}

type ListUnreadNotificationsQueryResponse struct {
	ID        kernel.UUID
	Kind      string
	Title     string
	Message   string
	CreatedAt time.Time
}
