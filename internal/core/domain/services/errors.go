package services

import "errors"

// Workflow error kinds. Callers match them with errors.Is; the wrapped message
// carries the offending stage or code.
var (
	ErrOrderNotFound              = errors.New("order not found")
	ErrInvalidCurrentStage        = errors.New("current stage is not in the stage catalog")
	ErrNoNextStage                = errors.New("no next stage")
	ErrInvalidStageForDelay       = errors.New("delays can only be registered in stage SEMI_ARMADO")
	ErrDelayReasonNotFound        = errors.New("delay reason not found")
	ErrNoOpenInterval             = errors.New("order has no open stage interval")
	ErrStageMismatch              = errors.New("open interval stage does not match order stage")
	ErrInvalidStageForIrreparable = errors.New("a part can only be declared irreparable in stage DIAGNOSTICO")
	ErrAuditWriteFailed           = errors.New("audit write failed")
)
