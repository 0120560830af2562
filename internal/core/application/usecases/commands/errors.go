package commands

import (
	"errors"
	"fmt"

	"workshop/internal/core/domain/services"
	"workshop/internal/pkg/errs"
)

var (
	ErrActorIsRequired       = errors.New("actor is required")
	ErrOrderNumberIsRequired = errors.New("order number is required")
)

func orderLookupError(err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return fmt.Errorf("%w: %w", services.ErrOrderNotFound, err)
	}
	return err
}
