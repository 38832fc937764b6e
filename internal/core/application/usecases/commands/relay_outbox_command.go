package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRelayOutboxCommandIsNotConstructed = errors.New(
	"RelayOutboxCommand must be created via NewRelayOutboxCommand constructor",
)

// RelayOutboxCommand publishes stored lifecycle events in batches.
type RelayOutboxCommand struct {
	batchSize  int
	maxBatches int
	guard      guard.ConstructorGuard
}

// NewRelayOutboxCommand drains at most maxBatches batches of batchSize.
func NewRelayOutboxCommand(batchSize, maxBatches int) (RelayOutboxCommand, error) {
	if err := errors.Join(
		positive("batch size", batchSize),
		positive("max batches", maxBatches),
	); err != nil {
		return RelayOutboxCommand{}, err
	}
	return RelayOutboxCommand{batchSize: batchSize, maxBatches: maxBatches, guard: guard.NewConstructorGuard()}, nil
}

func (c RelayOutboxCommand) Validate() error {
	return c.guard.Validate(ErrRelayOutboxCommandIsNotConstructed)
}

func (c RelayOutboxCommand) BatchSize() int { return c.batchSize }
func (c RelayOutboxCommand) MaxBatches() int { return c.maxBatches }

func positive(name string, v int) error {
	if v <= 0 {
		return errs.NewValueIsOutOfRangeError(name, v, 1, "unbounded")
	}
	return nil
}
