package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
)

type PartnerRepository interface {
	Add(ctx context.Context, p *delivery.Partner) error
	Update(ctx context.Context, p *delivery.Partner) error
	Get(ctx context.Context, id kernel.UUID) (*delivery.Partner, error)

	// ListCandidates returns every available partner with its current load.
	// SlotLoad is counted for slotID when given.
	ListCandidates(ctx context.Context, slotID *kernel.UUID) ([]services.Candidate, error)
}
