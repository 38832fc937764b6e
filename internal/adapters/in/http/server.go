package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server maps REST requests onto lifecycle commands and read queries.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{h: handlers, logger: logger.With("component", "http")}
}

// PlaceOrder handles POST /api/v1/orders - stores a checkout with every item pending.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var req PlaceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := placeOrderCommand(req)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.PlaceOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	ids := make([]string, len(result.ItemIDs))
	for i, id := range result.ItemIDs {
		ids[i] = id.String()
	}
	return ctx.JSON(http.StatusCreated, PlacedOrderResponse{
		OrderID: result.OrderID.String(),
		ItemIDs: ids,
		Total:   result.Total.String(),
	})
}

// GetOrder handles GET /api/v1/orders/{orderId} - an order with derived item views.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}
	view, err := s.h.Order.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderResponse(view))
}

// AssignPartner handles POST /api/v1/orders/{orderId}/assign - manual
// assignment, optionally of a chosen partner.
func (s *Server) AssignPartner(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return s.fail(ctx, err)
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req AssignRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	var partnerID *kernel.UUID
	if req.PartnerID != nil {
		id, parseErr := parseID("partner_id", *req.PartnerID)
		if parseErr != nil {
			return s.fail(ctx, parseErr)
		}
		partnerID = &id
	}

	cmd, err := commands.NewAssignPartnerCommand(orderID, delivery.ModeManual, actor, partnerID)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.h.AssignPartner.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, AssignResultResponse{
		Assignment: assignmentResponse(result.Assignment),
		Outcome:    result.Outcome.String(),
	})
}

// GetItemStatus handles GET /api/v1/items/{itemId} - the item with its
// derived status, countdown and warning.
func (s *Server) GetItemStatus(ctx echo.Context) error {
	itemID, err := pathUUID(ctx, "itemId")
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetItemStatusQuery(itemID)
	if err != nil {
		return s.fail(ctx, err)
	}
	view, err := s.h.ItemStatus.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, itemResponse(view))
}

// ConfirmItem handles POST /api/v1/items/{itemId}/confirm.
// A failed assignment is reported in the body; the confirmation stands.
func (s *Server) ConfirmItem(ctx echo.Context) error {
	itemID, actor, err := itemAction(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewConfirmItemCommand(itemID, actor)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.h.ConfirmItem.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, confirmResponse(result))
}

// RejectItem handles POST /api/v1/items/{itemId}/reject.
func (s *Server) RejectItem(ctx echo.Context) error {
	itemID, actor, err := itemAction(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req ReasonRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewRejectItemCommand(itemID, actor, req.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.h.RejectItem.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, ItemTransitionResponse{Item: itemStateResponse(result.Item), Outcome: result.Outcome.String()})
}

// CancelItem handles POST /api/v1/items/{itemId}/cancel. A partner backs out
// of the delivery; a customer or admin cancels the item itself.
func (s *Server) CancelItem(ctx echo.Context) error {
	itemID, actor, err := itemAction(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req ReasonRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	if actor.Role == kernel.RolePartner {
		cmd, cmdErr := commands.NewCancelDeliveryCommand(itemID, actor, req.Reason)
		if cmdErr != nil {
			return s.fail(ctx, cmdErr)
		}
		return s.assignmentTransition(ctx, func() (commands.AssignmentTransitionResult, error) {
			return s.h.Delivery.CancelDelivery(ctx.Request().Context(), cmd)
		})
	}

	cmd, err := commands.NewCancelItemCommand(itemID, actor, req.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.h.CancelItem.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, ItemTransitionResponse{Item: itemStateResponse(result.Item), Outcome: result.Outcome.String()})
}

// AcceptAssignment handles POST /api/v1/items/{itemId}/accept.
func (s *Server) AcceptAssignment(ctx echo.Context) error {
	itemID, actor, err := itemAction(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewAcceptAssignmentCommand(itemID, actor)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.assignmentTransition(ctx, func() (commands.AssignmentTransitionResult, error) {
		return s.h.Delivery.Accept(ctx.Request().Context(), cmd)
	})
}

// MarkPickedUp handles POST /api/v1/items/{itemId}/pickup with the vendor's code.
func (s *Server) MarkPickedUp(ctx echo.Context) error {
	itemID, actor, err := itemAction(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req CodeRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewMarkPickedUpCommand(itemID, actor, req.Code)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.assignmentTransition(ctx, func() (commands.AssignmentTransitionResult, error) {
		return s.h.Delivery.PickUp(ctx.Request().Context(), cmd)
	})
}

// MarkOutForDelivery handles POST /api/v1/items/{itemId}/out-for-delivery.
func (s *Server) MarkOutForDelivery(ctx echo.Context) error {
	itemID, actor, err := itemAction(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewMarkOutForDeliveryCommand(itemID, actor)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.assignmentTransition(ctx, func() (commands.AssignmentTransitionResult, error) {
		return s.h.Delivery.StartDelivery(ctx.Request().Context(), cmd)
	})
}

// MarkDelivered handles POST /api/v1/items/{itemId}/deliver with the customer's code.
func (s *Server) MarkDelivered(ctx echo.Context) error {
	itemID, actor, err := itemAction(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	var req CodeRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewMarkDeliveredCommand(itemID, actor, req.Code)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.assignmentTransition(ctx, func() (commands.AssignmentTransitionResult, error) {
		return s.h.Delivery.Deliver(ctx.Request().Context(), cmd)
	})
}

// GetVendorQueue handles GET /api/v1/vendors/{vendorId}/queue.
func (s *Server) GetVendorQueue(ctx echo.Context) error {
	vendorID, err := pathUUID(ctx, "vendorId")
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetVendorQueueQuery(vendorID)
	if err != nil {
		return s.fail(ctx, err)
	}
	queue, err := s.h.VendorQueue.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, vendorQueueResponse(queue))
}

// UpdateVendorPolicy handles PUT /api/v1/vendors/{vendorId}/policy.
// The body's version must be the one last read; a stale one is a conflict.
func (s *Server) UpdateVendorPolicy(ctx echo.Context) error {
	vendorID, err := pathUUID(ctx, "vendorId")
	if err != nil {
		return s.fail(ctx, err)
	}
	var req PolicyBody
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	policy, err := policyFromBody(vendorID, req)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewUpdateVendorPolicyCommand(policy)
	if err != nil {
		return s.fail(ctx, err)
	}
	saved, err := s.h.UpdatePolicy.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, policyBody(saved))
}

// RegisterPartner handles POST /api/v1/partners.
func (s *Server) RegisterPartner(ctx echo.Context) error {
	var req RegisterPartnerRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	pincodes := make([]kernel.Pincode, 0, len(req.Pincodes))
	for _, raw := range req.Pincodes {
		p, err := kernel.NewPincode(raw)
		if err != nil {
			return s.fail(ctx, err)
		}
		pincodes = append(pincodes, p)
	}
	sectorIDs, err := parseUUIDs(req.SectorIDs)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewRegisterPartnerCommand(req.Name, pincodes, sectorIDs, req.MaxPerSlot, req.SuccessRate)
	if err != nil {
		return s.fail(ctx, err)
	}
	partner, err := s.h.RegisterPartner.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, PartnerResponse{
		ID:        partner.ID().String(),
		Name:      partner.Name(),
		Available: partner.IsAvailable(),
	})
}

// SetPartnerAvailability handles PUT /api/v1/partners/{partnerId}/availability.
// Coming online triggers an assignment retry pass, reported in the body.
func (s *Server) SetPartnerAvailability(ctx echo.Context) error {
	partnerID, err := pathUUID(ctx, "partnerId")
	if err != nil {
		return s.fail(ctx, err)
	}
	var req AvailabilityRequest
	if err = ctx.Bind(&req); err != nil || req.Available == nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewSetPartnerAvailabilityCommand(partnerID, *req.Available)
	if err != nil {
		return s.fail(ctx, err)
	}
	result, err := s.h.SetAvailability.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	resp := AvailabilityResponse{
		PartnerID: partnerID.String(),
		Available: *req.Available,
		Changed:   result.Changed,
	}
	if result.Retry != nil {
		resp.Retried = &result.Retry.Attempted
		resp.Assigned = &result.Retry.Assigned
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (s *Server) assignmentTransition(
	ctx echo.Context,
	run func() (commands.AssignmentTransitionResult, error),
) error {
	result, err := run()
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, assignmentTransitionResponse(result))
}

func placeOrderCommand(req PlaceOrderRequest) (commands.PlaceOrderCommand, error) {
	customerID, err := parseID("customer_id", req.CustomerID)
	if err != nil {
		return commands.PlaceOrderCommand{}, err
	}
	address, err := kernel.NewAddress(req.Address.Line, req.Address.Pincode)
	if err != nil {
		return commands.PlaceOrderCommand{}, err
	}
	var slotID *kernel.UUID
	if req.SlotID != nil {
		id, parseErr := parseID("slot_id", *req.SlotID)
		if parseErr != nil {
			return commands.PlaceOrderCommand{}, parseErr
		}
		slotID = &id
	}
	var total *kernel.Money
	if req.Total != nil {
		m, parseErr := kernel.MoneyFromString(*req.Total)
		if parseErr != nil {
			return commands.PlaceOrderCommand{}, parseErr
		}
		total = &m
	}

	specs := make([]order.ItemSpec, 0, len(req.Items))
	for _, item := range req.Items {
		spec, specErr := itemSpec(item)
		if specErr != nil {
			return commands.PlaceOrderCommand{}, specErr
		}
		specs = append(specs, spec)
	}

	return commands.NewPlaceOrderCommand(customerID, address, slotID, order.PaymentStatus(req.PaymentStatus), specs, total)
}

func itemSpec(req OrderItemRequest) (order.ItemSpec, error) {
	vendorID, err1 := parseID("vendor_id", req.VendorID)
	productID, err2 := parseID("product_id", req.ProductID)
	price, err3 := kernel.MoneyFromString(req.UnitPrice)
	if err := errors.Join(err1, err2, err3); err != nil {
		return order.ItemSpec{}, err
	}
	return order.ItemSpec{
		VendorID:  vendorID,
		Product:   order.Product{ID: productID, Name: req.ProductName},
		UnitPrice: price,
		Quantity:  req.Quantity,
		Notes:     req.Notes,
	}, nil
}

func policyFromBody(vendorID kernel.UUID, body PolicyBody) (vendor.Policy, error) {
	policy := vendor.Policy{
		VendorID:          vendorID,
		AutoApprove:       body.AutoApprove,
		TimeoutMinutes:    body.TimeoutMinutes,
		BusinessHoursOnly: body.BusinessHoursOnly,
		Version:           body.Version,
	}
	if body.AutoApproveUnder != nil {
		limit, err := kernel.MoneyFromString(*body.AutoApproveUnder)
		if err != nil {
			return vendor.Policy{}, err
		}
		policy.AutoApproveUnder = &limit
	}
	if body.BusinessHours != nil {
		start, err1 := kernel.ParseTimeOfDay(body.BusinessHours.Start)
		end, err2 := kernel.ParseTimeOfDay(body.BusinessHours.End)
		if err := errors.Join(err1, err2); err != nil {
			return vendor.Policy{}, err
		}
		policy.BusinessHours = kernel.Window{Start: start, End: end}
	}
	return policy, nil
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return parseID(name, ctx.Param(name))
}

func parseID(name, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func parseUUIDs(raw []string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID("sector_ids", r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func itemAction(ctx echo.Context) (kernel.UUID, kernel.Actor, error) {
	itemID, err := pathUUID(ctx, "itemId")
	if err != nil {
		return kernel.UUID{}, kernel.Actor{}, err
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return kernel.UUID{}, kernel.Actor{}, err
	}
	return itemID, actor, nil
}
