package commands

import (
	"errors"
	"strings"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/pkg/guard"
)

var ErrOpenOrderCommandIsNotConstructed = errors.New(
	"OpenOrderCommand must be created via NewOpenOrderCommand constructor",
)

// OpenOrderCommand registers a unit at the workshop intake.
type OpenOrderCommand struct { //nolint:recvcheck //using for validation
	unitID kernel.UUID
	actor  string

	guard guard.ConstructorGuard
}

func NewOpenOrderCommand(unitID kernel.UUID, actor string) (OpenOrderCommand, error) {
	cmd := OpenOrderCommand{guard: guard.NewConstructorGuard()}

	actor = strings.TrimSpace(actor)

	var errList []error
	if err := unitID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if actor == "" {
		errList = append(errList, ErrActorIsRequired)
	}
	if err := errors.Join(errList...); err != nil {
		return OpenOrderCommand{}, err
	}

	cmd.unitID = unitID
	cmd.actor = actor
	return cmd, nil
}

func (c OpenOrderCommand) Validate() error {
	return c.guard.Validate(ErrOpenOrderCommandIsNotConstructed)
}

func (c OpenOrderCommand) UnitID() kernel.UUID {
	return c.unitID
}

func (c OpenOrderCommand) Actor() string {
	return c.actor
}

// OpenOrderResult identifies the order created by OpenOrderCommandHandler.
type OpenOrderResult struct {
	OrderID kernel.UUID
	Number  string
}
