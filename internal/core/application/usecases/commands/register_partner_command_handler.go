package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
)

// RegisterPartnerCommandHandler stores a new, unavailable partner.
type RegisterPartnerCommandHandler struct {
	uowFactory PartnerUoWFactory
}

func NewRegisterPartnerCommandHandler(uowFactory PartnerUoWFactory) RegisterPartnerCommandHandler {
	return RegisterPartnerCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h RegisterPartnerCommandHandler) Handle(ctx context.Context, cmd RegisterPartnerCommand) (*delivery.Partner, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	partner, err := delivery.NewPartner(cmd.PartnerID(), cmd.Name(), cmd.SuccessRate(), cmd.MaxPerSlot())
	if err != nil {
		return nil, err
	}
	if err = partner.ServeArea(cmd.Pincodes(), cmd.SectorIDs()); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PartnerRepository().Add(ctx, partner); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return partner, nil
}
