package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAutoApproveCommandIsNotConstructed = errors.New(
	"AutoApproveCommand must be created via NewAutoApproveCommand constructor",
)

// AutoApproveCommand is one scheduler tick over pending items.
type AutoApproveCommand struct {
	batchSize int
	guard     guard.ConstructorGuard
}

func NewAutoApproveCommand(batchSize int) (AutoApproveCommand, error) {
	if batchSize <= 0 {
		return AutoApproveCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	return AutoApproveCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c AutoApproveCommand) Validate() error {
	return c.guard.Validate(ErrAutoApproveCommandIsNotConstructed)
}

func (c AutoApproveCommand) BatchSize() int { return c.batchSize }
