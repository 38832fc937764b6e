package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRetryAssignmentsCommandIsNotConstructed = errors.New(
	"RetryAssignmentsCommand must be created via NewRetryAssignmentsCommand constructor",
)

// RetryAssignmentsCommand re-attempts assignment for orders that have
// confirmed items but no active assignment.
type RetryAssignmentsCommand struct {
	limit int
	guard guard.ConstructorGuard
}

func NewRetryAssignmentsCommand(limit int) (RetryAssignmentsCommand, error) {
	if limit <= 0 {
		return RetryAssignmentsCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return RetryAssignmentsCommand{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c RetryAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrRetryAssignmentsCommandIsNotConstructed)
}

func (c RetryAssignmentsCommand) Limit() int { return c.limit }
