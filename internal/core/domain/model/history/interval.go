package history

import (
	"errors"
	"strings"
	"time"

	"workshop/internal/core/domain/model/kernel"
	"workshop/internal/core/domain/model/stage"
	"workshop/internal/pkg/errs"
	"workshop/internal/pkg/guard"
)

// Observations written on the intervals the workflow opens.
const (
	ObservationIntake      = "Alta de orden"
	ObservationAdvance     = "Avance automático"
	ObservationIrreparable = "Pieza declarada irreparable"
)

var (
	ErrIntervalIsNotConstructed = errors.New("Interval must be created via OpenInterval or RestoreInterval")
	ErrIntervalAlreadyClosed    = errors.New("interval is already closed")
)

// Interval is one contiguous stay of an order in a stage.
type Interval struct {
	id            kernel.UUID
	orderID       kernel.UUID
	stageCode     stage.Code
	startedAt     time.Time
	endedAt       *time.Time
	observation   string
	delayReasonID *kernel.UUID
	actor         string

	guard guard.ConstructorGuard
}

// OpenInterval starts a new stay in code at startedAt.
func OpenInterval(
	id, orderID kernel.UUID,
	code stage.Code,
	actor, observation string,
	startedAt time.Time,
) (*Interval, error) {
	return RestoreInterval(id, orderID, code, startedAt, nil, observation, nil, actor)
}

// RestoreInterval rebuilds an interval from persisted state.
func RestoreInterval(
	id, orderID kernel.UUID,
	code stage.Code,
	startedAt time.Time,
	endedAt *time.Time,
	observation string,
	delayReasonID *kernel.UUID,
	actor string,
) (*Interval, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := orderID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("order id", err))
	}
	if code == "" {
		errList = append(errList, errs.NewValueIsRequiredError("stage code"))
	}
	if strings.TrimSpace(actor) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("actor"))
	}
	if startedAt.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("started at"))
	}
	if endedAt != nil && endedAt.Before(startedAt) {
		errList = append(errList, errs.NewValueIsInvalidError("ended at is before started at"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	i := &Interval{
		id:          id,
		orderID:     orderID,
		stageCode:   code,
		startedAt:   startedAt,
		observation: observation,
		actor:       strings.TrimSpace(actor),
		guard:       guard.NewConstructorGuard(),
	}
	if endedAt != nil {
		e := *endedAt
		i.endedAt = &e
	}
	if delayReasonID != nil {
		r := *delayReasonID
		i.delayReasonID = &r
	}
	return i, nil
}

func (i *Interval) Validate() error {
	if i == nil {
		return ErrIntervalIsNotConstructed
	}
	return i.guard.Validate(ErrIntervalIsNotConstructed)
}

func (i *Interval) ID() kernel.UUID       { return i.id }
func (i *Interval) OrderID() kernel.UUID  { return i.orderID }
func (i *Interval) StageCode() stage.Code { return i.stageCode }
func (i *Interval) StartedAt() time.Time  { return i.startedAt }
func (i *Interval) Observation() string   { return i.observation }
func (i *Interval) Actor() string         { return i.actor }
func (i *Interval) IsOpen() bool          { return i.endedAt == nil }
func (i *Interval) DelayReasonID() *kernel.UUID {
	if i.delayReasonID == nil {
		return nil
	}
	r := *i.delayReasonID
	return &r
}

func (i *Interval) EndedAt() *time.Time {
	if i.endedAt == nil {
		return nil
	}
	e := *i.endedAt
	return &e
}

// Close ends the interval at endTime. An endTime earlier than the start
// (clock skew, back-to-back calls) is clamped to the start.
func (i *Interval) Close(endTime time.Time) error {
	if !i.IsOpen() {
		return ErrIntervalAlreadyClosed
	}
	if endTime.Before(i.startedAt) {
		endTime = i.startedAt
	}
	i.endedAt = &endTime
	return nil
}

// AnnotateDelay appends text to the observation and records the delay reason.
// It returns the observation before and after the change.
func (i *Interval) AnnotateDelay(text string, reasonID kernel.UUID) (string, string, error) {
	if !i.IsOpen() {
		return "", "", ErrIntervalAlreadyClosed
	}
	if err := reasonID.Validate(); err != nil {
		return "", "", errs.NewValueIsRequiredErrorWithCause("delay reason id", err)
	}

	before := i.observation
	i.observation = AppendObservation(before, text)
	i.delayReasonID = &reasonID
	return before, i.observation, nil
}
