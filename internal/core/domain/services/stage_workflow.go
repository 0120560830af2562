package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"workshop/internal/core/domain/model/audit"
	"workshop/internal/core/domain/model/delay"
	"workshop/internal/core/domain/model/history"
	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/order"
	"workshop/internal/core/domain/model/stage"
	"workshop/internal/pkg/errs"
)

// Transition is the outcome of a workflow operation.
type Transition struct {
	Order *order.Order

	// Closed is the interval ended by the operation, Opened the one started by it.
	Closed *history.Interval
	Opened *history.Interval

	// Annotated is the open interval whose observation changed.
	Annotated *history.Interval

	// Audit holds the entries to append, in the order they happened.
	Audit []audit.Entry

	OrderChanged bool

	// ReadyForPickup is set when the order just reached LISTO_RETIRAR.
	ReadyForPickup bool

	// MissingOpenInterval reports that no open interval existed to close.
	MissingOpenInterval bool

	// NoOp is set when nothing has to be persisted.
	NoOp bool
}

// StageWorkflow applies transition rules over preloaded catalogs.
type StageWorkflow struct {
	stages  *stage.Catalog
	reasons *delay.Catalog
}

// NewStageWorkflow binds the workflow to its catalogs.
func NewStageWorkflow(stages *stage.Catalog, reasons *delay.Catalog) (*StageWorkflow, error) {
	if stages == nil {
		return nil, errs.NewValueIsRequiredError("stage catalog")
	}
	if reasons == nil {
		return nil, errs.NewValueIsRequiredError("delay reason catalog")
	}
	return &StageWorkflow{stages: stages, reasons: reasons}, nil
}

// Stages returns the stage catalog the workflow was built with.
func (w *StageWorkflow) Stages() *stage.Catalog {
	return w.stages
}

// Advance moves the order to the catalog entry following its current stage.
// open may be nil; the transition then reports MissingOpenInterval.
func (w *StageWorkflow) Advance(o *order.Order, open *history.Interval, actor string, now time.Time) (Transition, error) {
	if err := validateInputs(o, actor); err != nil {
		return Transition{}, err
	}

	state := o.State()
	if !state.IsSequential() {
		return Transition{}, fmt.Errorf("%w: %s", ErrInvalidCurrentStage, state.Code())
	}
	current, err := w.stages.ByCode(state.Code())
	if err != nil {
		return Transition{}, fmt.Errorf("%w: %s", ErrInvalidCurrentStage, state.Code())
	}
	next, ok := w.stages.NextOf(current)
	if !ok {
		return Transition{}, fmt.Errorf("%w: %s is the last stage", ErrNoNextStage, current.Code())
	}
	if next.Code() == current.Code() {
		return Transition{Order: o, NoOp: true}, nil
	}

	nextState, err := stage.Sequential(next.Code())
	if err != nil {
		return Transition{}, err
	}
	opened, err := history.OpenInterval(kernel.NewUUID(), o.ID(), next.Code(), actor, history.ObservationAdvance, now)
	if err != nil {
		return Transition{}, err
	}

	t := Transition{Order: o, Opened: opened, OrderChanged: true}
	t.Closed, t.MissingOpenInterval = closeOpen(open, now)

	if err = o.MoveTo(nextState); err != nil {
		return Transition{}, err
	}

	var changes []fieldChange
	if next.Code() == stage.Entregado {
		from, until := o.StartWarranty(now)
		changes = append(changes,
			fieldChange{audit.FieldWarrantyFrom, "", from.Format(time.DateOnly)},
			fieldChange{audit.FieldWarrantyUntil, "", until.Format(time.DateOnly)},
		)
	}
	changes = append(changes, fieldChange{audit.FieldStage, current.Code().String(), next.Code().String()})

	if t.Audit, err = newEntries(o.ID(), actor, now, changes...); err != nil {
		return Transition{}, err
	}

	t.ReadyForPickup = next.Code() == stage.ListoRetirar
	return t, nil
}

// MarkIrreparable branches an order in DIAGNOSTICO to PIEZA_IRREPARABLE.
// Calling it on an order already in the branch is a no-op.
func (w *StageWorkflow) MarkIrreparable(o *order.Order, open *history.Interval, actor string, now time.Time) (Transition, error) {
	if err := validateInputs(o, actor); err != nil {
		return Transition{}, err
	}

	state := o.State()
	if state.IsIrreparable() {
		return Transition{Order: o, NoOp: true}, nil
	}
	if !state.Is(stage.Diagnostico) {
		return Transition{}, fmt.Errorf("%w: current stage is %s", ErrInvalidStageForIrreparable, state.Code())
	}

	opened, err := history.OpenInterval(kernel.NewUUID(), o.ID(), stage.PiezaIrreparable, actor, history.ObservationIrreparable, now)
	if err != nil {
		return Transition{}, err
	}

	t := Transition{Order: o, Opened: opened, OrderChanged: true}
	t.Closed, t.MissingOpenInterval = closeOpen(open, now)

	if err = o.MoveTo(stage.Irreparable()); err != nil {
		return Transition{}, err
	}

	if t.Audit, err = newEntries(o.ID(), actor, now,
		fieldChange{audit.FieldStage, state.Code().String(), stage.PiezaIrreparable.String()},
	); err != nil {
		return Transition{}, err
	}
	return t, nil
}

// RegisterDelay annotates the open SEMI_ARMADO interval with a delay reason.
// No interval is opened or closed.
func (w *StageWorkflow) RegisterDelay(
	o *order.Order,
	open *history.Interval,
	reasonCode, note, actor string,
	now time.Time,
) (Transition, error) {
	if err := validateInputs(o, actor); err != nil {
		return Transition{}, err
	}

	state := o.State()
	if !state.Is(stage.SemiArmado) {
		return Transition{}, fmt.Errorf("%w: current stage is %s", ErrInvalidStageForDelay, state.Code())
	}

	reason, err := w.reasons.ByCode(reasonCode)
	if err != nil {
		return Transition{}, fmt.Errorf("%w: %s", ErrDelayReasonNotFound, reasonCode)
	}

	if open == nil || !open.IsOpen() {
		return Transition{}, ErrNoOpenInterval
	}
	if open.StageCode() != stage.SemiArmado {
		return Transition{}, fmt.Errorf("%w: order is in %s, open interval is in %s",
			ErrStageMismatch, state.Code(), open.StageCode())
	}

	before, after, err := open.AnnotateDelay(history.DelayText(reason.Code(), note), reason.ID())
	if err != nil {
		return Transition{}, err
	}

	t := Transition{Order: o, Annotated: open}
	if t.Audit, err = newEntries(o.ID(), actor, now, fieldChange{audit.FieldDelay, before, after}); err != nil {
		return Transition{}, err
	}
	return t, nil
}

func validateInputs(o *order.Order, actor string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(actor) == "" {
		return errs.NewValueIsRequiredError("actor")
	}
	return nil
}

// closeOpen ends the open interval, if any, with the clamping rule.
func closeOpen(open *history.Interval, now time.Time) (*history.Interval, bool) {
	if open == nil || !open.IsOpen() {
		return nil, true
	}
	if err := open.Close(now); err != nil {
		return nil, true
	}
	return open, false
}

type fieldChange struct {
	field    audit.Field
	oldValue string
	newValue string
}

func newEntries(orderID kernel.UUID, actor string, at time.Time, changes ...fieldChange) ([]audit.Entry, error) {
	entries := make([]audit.Entry, 0, len(changes))
	var errList []error
	for _, c := range changes {
		e, err := audit.NewEntry(orderID, c.field, c.oldValue, c.newValue, actor, at)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, errors.Join(errList...)
}
