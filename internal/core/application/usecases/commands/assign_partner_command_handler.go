package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

// AssignPartnerResult reports the assignment the order ended up with.
// Outcome is OutcomeUnchanged when an active assignment already existed.
type AssignPartnerResult struct {
	Assignment *delivery.Assignment
	Outcome    kernel.Outcome
}

// PartnerAssigner is the assignment step other handlers trigger.
type PartnerAssigner interface {
	Handle(ctx context.Context, cmd AssignPartnerCommand) (AssignPartnerResult, error)
}

// AssignPartnerCommandHandler matches a partner and creates the active
// assignment. Storage enforces one active assignment per order, so two
// concurrent attempts produce exactly one; the loser returns the winner's.
//
// Example:
//
//	cmd, _ := NewAssignPartnerCommand(orderID, delivery.ModeAuto, kernel.SystemActor(), nil)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrMissingGeoData):
//	    // address has no usable pincode
//	case errors.Is(err, errs.ErrAssignmentUnavailable):
//	    // no partner free right now, retried later
//	}
type AssignPartnerCommandHandler struct {
	uowFactory AssignmentUoWFactory
	directory  ports.GeoDirectory
	issuer     ports.CodeIssuer
	matcher    services.PartnerMatcher
	clock      clock.Clock
	logger     *slog.Logger
}

func NewAssignPartnerCommandHandler(
	uowFactory AssignmentUoWFactory,
	directory ports.GeoDirectory,
	issuer ports.CodeIssuer,
	clk clock.Clock,
	logger *slog.Logger,
) AssignPartnerCommandHandler {
	return AssignPartnerCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		issuer:     issuer,
		matcher:    services.NewPartnerMatcher(),
		clock:      clk,
		logger:     logger.With("component", "assign-partner"),
	}
}

func (h AssignPartnerCommandHandler) Handle(ctx context.Context, cmd AssignPartnerCommand) (AssignPartnerResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignPartnerResult{}, err
	}

	result, err := h.assign(ctx, cmd)
	if errors.Is(err, errs.ErrConcurrencyConflict) {
		// Another attempt created the assignment first.
		return h.existing(ctx, cmd.OrderID())
	}
	return result, err
}

func (h AssignPartnerCommandHandler) assign(ctx context.Context, cmd AssignPartnerCommand) (AssignPartnerResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignPartnerResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignments := uow.AssignmentRepository()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return AssignPartnerResult{}, err
	}

	active, err := assignments.GetActiveByOrder(ctx, o.ID())
	switch {
	case err == nil:
		done, err := h.finishActive(ctx, assignments, o, active)
		if err != nil {
			return AssignPartnerResult{}, err
		}
		if done {
			return AssignPartnerResult{Assignment: active, Outcome: kernel.OutcomeUnchanged}, nil
		}
	case !errors.Is(err, errs.ErrObjectNotFound):
		return AssignPartnerResult{}, err
	}

	if !o.HasConfirmedItems() {
		return AssignPartnerResult{}, errs.NewPreconditionFailedError("order", o.ID(), "without confirmed items", "assign")
	}

	req, err := h.matchRequest(ctx, o)
	if err != nil {
		return AssignPartnerResult{}, err
	}

	history, err := assignments.ListByOrder(ctx, o.ID())
	if err != nil {
		return AssignPartnerResult{}, err
	}
	for _, a := range history {
		if a.Status() == delivery.Cancelled {
			req.Exclude = append(req.Exclude, a.PartnerID())
		}
	}

	candidates, err := uow.PartnerRepository().ListCandidates(ctx, o.SlotID())
	if err != nil {
		return AssignPartnerResult{}, err
	}
	if only := cmd.PartnerID(); only != nil {
		candidates = onlyPartner(candidates, *only)
	}

	partner, err := h.matcher.Match(req, candidates)
	if err != nil {
		return AssignPartnerResult{}, err
	}

	codes, err := h.issuer.Issue(ctx)
	if err != nil {
		return AssignPartnerResult{}, fmt.Errorf("issue codes: %w", err)
	}

	a, err := delivery.NewAssignment(
		kernel.NewUUID(),
		o.ID(),
		partner.ID(),
		o.SlotID(),
		codes,
		cmd.Mode(),
		cmd.Actor(),
		itemRefs(o),
		h.clock.Now(),
	)
	if err != nil {
		return AssignPartnerResult{}, err
	}

	if err = assignments.Add(ctx, a); err != nil {
		return AssignPartnerResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignPartnerResult{}, err
	}

	h.logger.InfoContext(ctx, "partner assigned",
		"order_id", o.ID().String(),
		"assignment_id", a.ID().String(),
		"partner_id", partner.ID().String(),
		"mode", string(cmd.Mode()))

	return AssignPartnerResult{Assignment: a, Outcome: kernel.OutcomeApplied}, nil
}

// finishActive decides what an existing active assignment means for this
// attempt. It reports done when the active assignment already covers every
// confirmed item. Items confirmed after pickup cannot join it: they wait until
// the delivery completes, then the delivered assignment is retired so a new
// one can be created in the same unit of work.
func (h AssignPartnerCommandHandler) finishActive(
	ctx context.Context,
	assignments ports.AssignmentRepository,
	o *order.Order,
	active *delivery.Assignment,
) (bool, error) {
	if len(carriedItems(o, active)) == len(o.ItemsWithStatus(order.Confirmed)) {
		return true, nil
	}
	if active.Status() != delivery.Delivered {
		return false, fmt.Errorf("%w: order %s is on its way with partner %s",
			errs.ErrAssignmentUnavailable, o.ID(), active.PartnerID())
	}

	if _, err := active.Retire(); err != nil {
		return false, err
	}
	if err := assignments.Update(ctx, active); err != nil {
		return false, err
	}
	h.logger.InfoContext(ctx, "delivered assignment retired",
		"order_id", o.ID().String(), "assignment_id", active.ID().String())
	return false, nil
}

// matchRequest resolves the order's geography. Orders without a pincode or
// with a pincode no sector covers fail with errs.ErrMissingGeoData.
func (h AssignPartnerCommandHandler) matchRequest(ctx context.Context, o *order.Order) (services.MatchRequest, error) {
	addr := o.Address()
	if !addr.HasPincode() {
		return services.MatchRequest{}, fmt.Errorf("%w: order %s has no pincode", errs.ErrMissingGeoData, o.ID())
	}

	sector, err := h.directory.ResolveSector(ctx, addr.Pincode)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return services.MatchRequest{}, fmt.Errorf("%w: no sector covers pincode %s", errs.ErrMissingGeoData, addr.Pincode)
	}
	if err != nil {
		return services.MatchRequest{}, err
	}

	req := services.MatchRequest{Pincode: addr.Pincode, SectorID: sector.ID}
	if slotID := o.SlotID(); slotID != nil {
		slot, err := h.directory.GetSlot(ctx, *slotID)
		if err != nil {
			return services.MatchRequest{}, err
		}
		req.Slot = &slot
	}
	return req, nil
}

func (h AssignPartnerCommandHandler) existing(ctx context.Context, orderID kernel.UUID) (AssignPartnerResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignPartnerResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	a, err := uow.AssignmentRepository().GetActiveByOrder(ctx, orderID)
	if err != nil {
		return AssignPartnerResult{}, err
	}
	return AssignPartnerResult{Assignment: a, Outcome: kernel.OutcomeUnchanged}, nil
}

func onlyPartner(candidates []services.Candidate, id kernel.UUID) []services.Candidate {
	for _, c := range candidates {
		if c.Partner.ID().IsEqual(id) {
			return []services.Candidate{c}
		}
	}
	return nil
}
