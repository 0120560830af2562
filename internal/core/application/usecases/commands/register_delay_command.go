package commands

import (
	"errors"
	"strings"

	"workshop/internal/pkg/guard"
)

var (
	ErrRegisterDelayCommandIsNotConstructed = errors.New(
		"RegisterDelayCommand must be created via NewRegisterDelayCommand constructor",
	)
	ErrDelayCodeIsRequired = errors.New("delay code is required")
)

// RegisterDelayCommand annotates a delay on an order sitting in SEMI_ARMADO.
// The note is optional free text.
type RegisterDelayCommand struct { //nolint:recvcheck //using for validation
	orderNumber string
	delayCode   string
	note        string
	actor       string

	guard guard.ConstructorGuard
}

func NewRegisterDelayCommand(orderNumber, delayCode, note, actor string) (RegisterDelayCommand, error) {
	cmd := RegisterDelayCommand{
		note:  strings.TrimSpace(note),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderNumber(orderNumber),
		cmd.setDelayCode(delayCode),
		cmd.setActor(actor),
	); err != nil {
		return RegisterDelayCommand{}, err
	}

	return cmd, nil
}

func (c RegisterDelayCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDelayCommandIsNotConstructed)
}

func (c RegisterDelayCommand) OrderNumber() string { return c.orderNumber }
func (c RegisterDelayCommand) DelayCode() string   { return c.delayCode }
func (c RegisterDelayCommand) Note() string        { return c.note }
func (c RegisterDelayCommand) Actor() string       { return c.actor }

func (c *RegisterDelayCommand) setOrderNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return ErrOrderNumberIsRequired
	}
	c.orderNumber = number
	return nil
}

func (c *RegisterDelayCommand) setDelayCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrDelayCodeIsRequired
	}
	c.delayCode = code
	return nil
}

func (c *RegisterDelayCommand) setActor(actor string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrActorIsRequired
	}
	c.actor = actor
	return nil
}
