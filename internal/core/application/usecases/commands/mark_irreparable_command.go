package commands

import (
	"errors"
	"strings"

	"workshop/internal/pkg/guard"
)

var ErrMarkIrreparableCommandIsNotConstructed = errors.New(
	"MarkIrreparableCommand must be created via NewMarkIrreparableCommand constructor",
)

// MarkIrreparableCommand declares the part of an order in DIAGNOSTICO irreparable.
type MarkIrreparableCommand struct { //nolint:recvcheck //using for validation
	orderNumber string
	actor       string

	guard guard.ConstructorGuard
}

func NewMarkIrreparableCommand(orderNumber, actor string) (MarkIrreparableCommand, error) {
	cmd := MarkIrreparableCommand{guard: guard.NewConstructorGuard()}

	orderNumber = strings.TrimSpace(orderNumber)
	actor = strings.TrimSpace(actor)

	var errList []error
	if orderNumber == "" {
		errList = append(errList, ErrOrderNumberIsRequired)
	}
	if actor == "" {
		errList = append(errList, ErrActorIsRequired)
	}
	if err := errors.Join(errList...); err != nil {
		return MarkIrreparableCommand{}, err
	}

	cmd.orderNumber = orderNumber
	cmd.actor = actor
	return cmd, nil
}

func (c MarkIrreparableCommand) Validate() error {
	return c.guard.Validate(ErrMarkIrreparableCommandIsNotConstructed)
}

func (c MarkIrreparableCommand) OrderNumber() string {
	return c.orderNumber
}

func (c MarkIrreparableCommand) Actor() string {
	return c.actor
}
