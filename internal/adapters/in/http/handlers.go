package http

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/vendor"
)

// Use case contracts the server depends on. The command and query handlers
// satisfy them directly.
type (
	OrderPlacer interface {
		Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (commands.PlaceOrderResult, error)
	}
	ItemRejecter interface {
		Handle(ctx context.Context, cmd commands.RejectItemCommand) (commands.ItemTransitionResult, error)
	}
	ItemCanceller interface {
		Handle(ctx context.Context, cmd commands.CancelItemCommand) (commands.ItemTransitionResult, error)
	}
	DeliveryActions interface {
		Accept(ctx context.Context, cmd commands.AcceptAssignmentCommand) (commands.AssignmentTransitionResult, error)
		PickUp(ctx context.Context, cmd commands.MarkPickedUpCommand) (commands.AssignmentTransitionResult, error)
		StartDelivery(ctx context.Context, cmd commands.MarkOutForDeliveryCommand) (commands.AssignmentTransitionResult, error)
		Deliver(ctx context.Context, cmd commands.MarkDeliveredCommand) (commands.AssignmentTransitionResult, error)
		CancelDelivery(ctx context.Context, cmd commands.CancelDeliveryCommand) (commands.AssignmentTransitionResult, error)
	}
	PolicyUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateVendorPolicyCommand) (vendor.Policy, error)
	}
	PartnerRegistrar interface {
		Handle(ctx context.Context, cmd commands.RegisterPartnerCommand) (*delivery.Partner, error)
	}
	AvailabilitySetter interface {
		Handle(ctx context.Context, cmd commands.SetPartnerAvailabilityCommand) (commands.AvailabilityResult, error)
	}
	ItemStatusReader interface {
		Handle(ctx context.Context, query queries.GetItemStatusQuery) (queries.ItemView, error)
	}
	OrderReader interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}
	VendorQueueReader interface {
		Handle(ctx context.Context, query queries.GetVendorQueueQuery) (queries.VendorQueue, error)
	}
)

// Handlers groups the use cases behind the REST routes.
type Handlers struct {
	PlaceOrder      OrderPlacer
	AssignPartner   commands.PartnerAssigner
	ConfirmItem     commands.ItemConfirmer
	RejectItem      ItemRejecter
	CancelItem      ItemCanceller
	Delivery        DeliveryActions
	UpdatePolicy    PolicyUpdater
	RegisterPartner PartnerRegistrar
	SetAvailability AvailabilitySetter

	ItemStatus  ItemStatusReader
	Order       OrderReader
	VendorQueue VendorQueueReader
}
