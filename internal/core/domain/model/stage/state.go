package stage

import (
	"errors"

	"workshop/internal/pkg/errs"
)

// ErrStateIsNotConstructed is returned by Validate on a zero-value State.
var ErrStateIsNotConstructed = errors.New("State must be created via Sequential, Irreparable or StateFromCode")

type kind uint8

const (
	kindSequential kind = iota + 1
	kindIrreparable
)

// State is where an order currently sits: a sequential catalog stage or the
// irreparable branch. Catalog membership of a sequential code is not checked
// here; advancing resolves it against the catalog.
type State struct {
	kind kind
	code Code
}

// Sequential returns the state for a catalog stage.
func Sequential(code Code) (State, error) {
	if code == "" {
		return State{}, errs.NewValueIsRequiredError("stage code")
	}
	if code.IsBranch() {
		return State{}, errs.NewValueIsInvalidErrorWithCause("stage code",
			errors.New(string(code)+" is a branch state, not a sequential stage"))
	}
	return State{kind: kindSequential, code: code}, nil
}

// Irreparable returns the branch state.
func Irreparable() State {
	return State{kind: kindIrreparable, code: PiezaIrreparable}
}

// StateFromCode restores a stored stage code.
func StateFromCode(code string) (State, error) {
	if Code(code).IsBranch() {
		return Irreparable(), nil
	}
	return Sequential(Code(code))
}

// Code returns the stored representation of the state.
func (s State) Code() Code {
	return s.code
}

// IsIrreparable reports whether the order is in the branch state.
func (s State) IsIrreparable() bool {
	return s.kind == kindIrreparable
}

// IsSequential reports whether the order is on a catalog stage.
func (s State) IsSequential() bool {
	return s.kind == kindSequential
}

// Is reports whether the state holds the given code.
func (s State) Is(code Code) bool {
	return s.kind != 0 && s.code == code
}

func (s State) Validate() error {
	if s.kind == 0 {
		return ErrStateIsNotConstructed
	}
	return nil
}

func (s State) String() string {
	return string(s.code)
}
