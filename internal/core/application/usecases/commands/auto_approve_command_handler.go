package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

// ItemConfirmer is the confirmation step the scheduler drives.
type ItemConfirmer interface {
	Handle(ctx context.Context, cmd ConfirmItemCommand) (ConfirmItemResult, error)
}

// AutoApproveReport summarises one tick.
type AutoApproveReport struct {
	Scanned           int
	Confirmed         int
	AssignmentPending int
	// Raced counts items a vendor decided on while the tick was running.
	Raced   int
	Failed  int
	Skipped map[vendor.SkipReason]int
}

// AutoApproveCommandHandler confirms pending items whose vendor policy allows
// it. Items are confirmed one at a time through the regular confirmation path,
// so a vendor acting concurrently wins or loses cleanly and a failing item
// does not stop the others.
type AutoApproveCommandHandler struct {
	uowFactory LifecyclePolicyUoWFactory
	confirmer  ItemConfirmer
	clock      clock.Clock
	logger     *slog.Logger
}

func NewAutoApproveCommandHandler(
	uowFactory LifecyclePolicyUoWFactory,
	confirmer ItemConfirmer,
	clk clock.Clock,
	logger *slog.Logger,
) AutoApproveCommandHandler {
	return AutoApproveCommandHandler{
		uowFactory: uowFactory,
		confirmer:  confirmer,
		clock:      clk,
		logger:     logger.With("component", "auto-approval"),
	}
}

// Handle evaluates every pending item. Items are read in pages of the
// command's batch size, so items that stay ineligible never hide newer ones.
func (h AutoApproveCommandHandler) Handle(ctx context.Context, cmd AutoApproveCommand) (AutoApproveReport, error) {
	if err := cmd.Validate(); err != nil {
		return AutoApproveReport{}, err
	}

	report := AutoApproveReport{Skipped: make(map[vendor.SkipReason]int)}
	var cursor ports.PageCursor
	for {
		items, policies, err := h.load(ctx, cursor, cmd.BatchSize())
		if err != nil {
			return report, err
		}

		now := h.clock.Now()
		for _, item := range items {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Scanned++

			policy, ok := policies[item.VendorID()]
			if !ok {
				policy = vendor.DefaultPolicy(item.VendorID())
			}
			decision := policy.Evaluate(item.LineTotal(), now)
			if !decision.Eligible {
				report.Skipped[decision.Reason]++
				continue
			}

			h.confirm(ctx, item, &report)
		}

		if len(items) < cmd.BatchSize() {
			break
		}
		cursor = ports.ItemCursor(items[len(items)-1])
	}

	h.logger.InfoContext(ctx, "auto-approval tick",
		"scanned", report.Scanned,
		"confirmed", report.Confirmed,
		"assignment_pending", report.AssignmentPending,
		"raced", report.Raced,
		"failed", report.Failed)
	return report, nil
}

func (h AutoApproveCommandHandler) confirm(ctx context.Context, item *order.Item, report *AutoApproveReport) {
	cmd, err := NewConfirmItemCommand(item.ID(), kernel.SystemActor())
	if err != nil {
		report.Failed++
		return
	}

	result, err := h.confirmer.Handle(ctx, cmd)
	switch {
	case errors.Is(err, errs.ErrPreconditionFailed):
		report.Raced++
		return
	case err != nil:
		report.Failed++
		h.logger.ErrorContext(ctx, "auto-approval failed", "item_id", item.ID().String(), "error", err)
		return
	}

	if !result.Outcome.IsApplied() {
		report.Raced++
		return
	}
	report.Confirmed++
	if result.AssignmentState == AssignmentPending {
		report.AssignmentPending++
	}
}

func (h AutoApproveCommandHandler) load(
	ctx context.Context,
	after ports.PageCursor,
	limit int,
) ([]*order.Item, map[kernel.UUID]vendor.Policy, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	items, err := uow.OrderRepository().ListPendingItems(ctx, after, limit)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, nil
	}

	vendorIDs := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		vendorIDs = append(vendorIDs, item.VendorID())
	}
	policies, err := uow.PolicyRepository().GetMany(ctx, vendorIDs)
	if err != nil {
		return nil, nil, err
	}
	return items, policies, nil
}
