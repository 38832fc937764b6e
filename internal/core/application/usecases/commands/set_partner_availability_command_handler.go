package commands

import (
	"context"
	"log/slog"
)

// AssignmentRetrier runs a retry pass.
type AssignmentRetrier interface {
	Handle(ctx context.Context, cmd RetryAssignmentsCommand) (RetryReport, error)
}

// AvailabilityResult reports the toggle and, when the partner came online,
// the retry pass it triggered.
type AvailabilityResult struct {
	Changed bool
	Retry   *RetryReport
}

// SetPartnerAvailabilityCommandHandler stores the toggle. A partner coming
// online may unblock orders waiting for assignment, so a retry pass follows.
type SetPartnerAvailabilityCommandHandler struct {
	uowFactory PartnerUoWFactory
	retrier    AssignmentRetrier
	retryLimit int
	logger     *slog.Logger
}

func NewSetPartnerAvailabilityCommandHandler(
	uowFactory PartnerUoWFactory,
	retrier AssignmentRetrier,
	retryLimit int,
	logger *slog.Logger,
) SetPartnerAvailabilityCommandHandler {
	return SetPartnerAvailabilityCommandHandler{
		uowFactory: uowFactory,
		retrier:    retrier,
		retryLimit: retryLimit,
		logger:     logger.With("component", "partner-availability"),
	}
}

func (h SetPartnerAvailabilityCommandHandler) Handle(
	ctx context.Context,
	cmd SetPartnerAvailabilityCommand,
) (AvailabilityResult, error) {
	if err := cmd.Validate(); err != nil {
		return AvailabilityResult{}, err
	}

	changed, err := h.toggle(ctx, cmd)
	if err != nil {
		return AvailabilityResult{}, err
	}
	result := AvailabilityResult{Changed: changed}
	if !changed || !cmd.Available() {
		return result, nil
	}

	retryCmd, err := NewRetryAssignmentsCommand(h.retryLimit)
	if err != nil {
		return result, err
	}
	report, err := h.retrier.Handle(ctx, retryCmd)
	if err != nil {
		h.logger.WarnContext(ctx, "retry after availability change failed",
			"partner_id", cmd.PartnerID().String(), "error", err)
		return result, nil
	}
	result.Retry = &report
	return result, nil
}

func (h SetPartnerAvailabilityCommandHandler) toggle(ctx context.Context, cmd SetPartnerAvailabilityCommand) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	partner, err := uow.PartnerRepository().Get(ctx, cmd.PartnerID())
	if err != nil {
		return false, err
	}
	if !partner.SetAvailability(cmd.Available()) {
		return false, nil
	}

	if err = uow.PartnerRepository().Update(ctx, partner); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}
