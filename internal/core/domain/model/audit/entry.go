// Package audit defines the append-only record of field changes made to work orders.
package audit

import (
	"errors"
	"strings"
	"time"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/pkg/errs"
	"workshop/internal/pkg/guard"
)

// Field names the audited attribute of an order.
type Field string

const (
	FieldStage         Field = "estado_actual"
	FieldWarrantyFrom  Field = "garantia_desde"
	FieldWarrantyUntil Field = "garantia_hasta"
	FieldDelay         Field = "demora"
)

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry")

// Entry is one before/after change of a single field. Entries are never updated.
type Entry struct {
	id         kernel.UUID
	orderID    kernel.UUID
	field      Field
	oldValue   *string
	newValue   *string
	actor      string
	recordedAt time.Time

	guard guard.ConstructorGuard
}

// NewEntry records a change. Blank values are stored as null.
func NewEntry(orderID kernel.UUID, field Field, oldValue, newValue string, actor string, at time.Time) (Entry, error) {
	return RestoreEntry(kernel.NewUUID(), orderID, field, nullable(oldValue), nullable(newValue), actor, at)
}

// RestoreEntry rebuilds an entry from the ledger.
func RestoreEntry(
	id, orderID kernel.UUID,
	field Field,
	oldValue, newValue *string,
	actor string,
	at time.Time,
) (Entry, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := orderID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("order id", err))
	}
	if strings.TrimSpace(string(field)) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("field"))
	}
	if strings.TrimSpace(actor) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("actor"))
	}
	if at.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("timestamp"))
	}
	if err := errors.Join(errList...); err != nil {
		return Entry{}, err
	}

	return Entry{
		id:         id,
		orderID:    orderID,
		field:      field,
		oldValue:   oldValue,
		newValue:   newValue,
		actor:      strings.TrimSpace(actor),
		recordedAt: at,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (e Entry) Validate() error {
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

func (e Entry) ID() kernel.UUID      { return e.id }
func (e Entry) OrderID() kernel.UUID { return e.orderID }
func (e Entry) Field() Field         { return e.field }
func (e Entry) OldValue() *string    { return e.oldValue }
func (e Entry) NewValue() *string    { return e.newValue }
func (e Entry) Actor() string        { return e.actor }
func (e Entry) RecordedAt() time.Time {
	return e.recordedAt
}

func nullable(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}
