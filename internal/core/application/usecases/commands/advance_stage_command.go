package commands

import (
	"errors"
	"strings"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/pkg/guard"
)

var ErrAdvanceStageCommandIsNotConstructed = errors.New(
	"AdvanceStageCommand must be created via NewAdvanceStageCommand constructor",
)

// AdvanceStageCommand moves an order to the next stage of the catalog.
//
// Example:
//
//	cmd, err := NewAdvanceStageCommand(orderID, "mgarcia")
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type AdvanceStageCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   string

	guard guard.ConstructorGuard
}

func NewAdvanceStageCommand(orderID kernel.UUID, actor string) (AdvanceStageCommand, error) {
	cmd := AdvanceStageCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
	); err != nil {
		return AdvanceStageCommand{}, err
	}

	return cmd, nil
}

func (c AdvanceStageCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceStageCommandIsNotConstructed)
}

func (c AdvanceStageCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AdvanceStageCommand) Actor() string {
	return c.actor
}

func (c *AdvanceStageCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *AdvanceStageCommand) setActor(actor string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrActorIsRequired
	}
	c.actor = actor
	return nil
}
