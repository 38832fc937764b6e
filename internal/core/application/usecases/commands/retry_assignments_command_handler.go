package commands

import (
	"context"
	"log/slog"
	"sync"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// RetryReport summarises one retry pass.
type RetryReport struct {
	Attempted int
	Assigned  int
	Pending   int
}

// RetryAssignmentsCommandHandler lists orders awaiting a partner and hands
// each to the assigner. One order's failure does not stop the pass.
//
// Each pass continues after the last order the previous pass attempted and
// wraps around at the end of the pool, so orders that keep failing cannot
// starve newer ones.
type RetryAssignmentsCommandHandler struct {
	uowFactory OrderUoWFactory
	assigner   PartnerAssigner
	cursor     *retryCursor
	logger     *slog.Logger
}

type retryCursor struct {
	mu    sync.Mutex
	after ports.PageCursor
}

func (c *retryCursor) load() ports.PageCursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.after
}

func (c *retryCursor) store(after ports.PageCursor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.after = after
}

func NewRetryAssignmentsCommandHandler(
	uowFactory OrderUoWFactory,
	assigner PartnerAssigner,
	logger *slog.Logger,
) RetryAssignmentsCommandHandler {
	return RetryAssignmentsCommandHandler{
		uowFactory: uowFactory,
		assigner:   assigner,
		cursor:     &retryCursor{},
		logger:     logger.With("component", "assignment-retry"),
	}
}

func (h RetryAssignmentsCommandHandler) Handle(ctx context.Context, cmd RetryAssignmentsCommand) (RetryReport, error) {
	if err := cmd.Validate(); err != nil {
		return RetryReport{}, err
	}

	refs, err := h.nextPage(ctx, cmd.Limit())
	if err != nil {
		return RetryReport{}, err
	}

	var report RetryReport
	for _, ref := range refs {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Attempted++

		assignCmd, err := NewAssignPartnerCommand(ref.ID, delivery.ModeRetry, kernel.SystemActor(), nil)
		if err != nil {
			return report, err
		}
		if _, err = h.assigner.Handle(ctx, assignCmd); err != nil {
			report.Pending++
			h.logger.DebugContext(ctx, "assignment still pending", "order_id", ref.ID.String(), "error", err)
			continue
		}
		report.Assigned++
	}

	return report, nil
}

// nextPage reads the orders after the stored cursor and moves the cursor. A
// short page means the end of the pool was reached; the next pass starts over.
func (h RetryAssignmentsCommandHandler) nextPage(ctx context.Context, limit int) ([]ports.OrderRef, error) {
	after := h.cursor.load()
	refs, err := h.awaiting(ctx, after, limit)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 && !after.IsZero() {
		after = ports.PageCursor{}
		if refs, err = h.awaiting(ctx, after, limit); err != nil {
			return nil, err
		}
	}

	if len(refs) < limit {
		h.cursor.store(ports.PageCursor{})
	} else {
		h.cursor.store(refs[len(refs)-1].Cursor())
	}
	return refs, nil
}

func (h RetryAssignmentsCommandHandler) awaiting(
	ctx context.Context,
	after ports.PageCursor,
	limit int,
) ([]ports.OrderRef, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().ListAwaitingAssignment(ctx, after, limit)
}
