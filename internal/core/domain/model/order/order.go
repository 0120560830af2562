package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/stage"
	"workshop/internal/pkg/errs"
	"workshop/internal/pkg/guard"
)

// WarrantyPeriodDays is the length of the warranty granted on delivery.
const WarrantyPeriodDays = 90

// ErrOrderIsNotConstructed is returned by Validate when the order bypassed NewOrder/RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the work order aggregate root.
//
// Invariants:
//   - id, unitID and number are always set
//   - state is a constructed stage.State
//   - warrantyFrom and warrantyUntil are either both nil or both set
type Order struct {
	id            kernel.UUID
	number        string
	unitID        kernel.UUID
	state         stage.State
	warrantyFrom  *time.Time
	warrantyUntil *time.Time
	createdAt     time.Time

	guard guard.ConstructorGuard
}

// FormatNumber renders the human-facing order number for the n-th order.
func FormatNumber(n int64) string {
	return fmt.Sprintf("OT-%04d", n)
}

// NewOrder opens a work order in the INGRESO stage.
func NewOrder(id kernel.UUID, number string, unitID kernel.UUID, createdAt time.Time) (*Order, error) {
	initial, err := stage.Sequential(stage.Ingreso)
	if err != nil {
		return nil, err
	}
	return RestoreOrder(id, number, unitID, initial, nil, nil, createdAt)
}

// RestoreOrder rebuilds an order from persisted state.
func RestoreOrder(
	id kernel.UUID,
	number string,
	unitID kernel.UUID,
	state stage.State,
	warrantyFrom, warrantyUntil *time.Time,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setUnitID(unitID),
		o.setState(state),
		o.setWarranty(warrantyFrom, warrantyUntil),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() string {
	return o.number
}

func (o *Order) UnitID() kernel.UUID {
	return o.unitID
}

func (o *Order) State() stage.State {
	return o.state
}

// StageCode is the persisted form of State.
func (o *Order) StageCode() stage.Code {
	return o.state.Code()
}

func (o *Order) WarrantyFrom() *time.Time {
	return copyTime(o.warrantyFrom)
}

func (o *Order) WarrantyUntil() *time.Time {
	return copyTime(o.warrantyUntil)
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// MoveTo sets the current state. Transition rules belong to the stage workflow.
func (o *Order) MoveTo(state stage.State) error {
	return o.setState(state)
}

// StartWarranty stamps the warranty window starting on the calendar date of today (UTC)
// and returns the stored bounds.
func (o *Order) StartWarranty(today time.Time) (time.Time, time.Time) {
	u := today.UTC()
	from := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 0, WarrantyPeriodDays)

	o.warrantyFrom = &from
	o.warrantyUntil = &until
	return from, until
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = number
	return nil
}

func (o *Order) setUnitID(unitID kernel.UUID) error {
	if err := unitID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("unit id", err)
	}
	o.unitID = unitID
	return nil
}

func (o *Order) setState(state stage.State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	o.state = state
	return nil
}

func (o *Order) setWarranty(from, until *time.Time) error {
	if (from == nil) != (until == nil) {
		return errs.NewValueIsInvalidErrorWithCause("warranty",
			errors.New("warranty start and end must be set together"))
	}
	if from != nil && until.Before(*from) {
		return errs.NewValueIsInvalidErrorWithCause("warranty",
			fmt.Errorf("end %s is before start %s", until.Format(time.DateOnly), from.Format(time.DateOnly)))
	}
	o.warrantyFrom = copyTime(from)
	o.warrantyUntil = copyTime(until)
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
