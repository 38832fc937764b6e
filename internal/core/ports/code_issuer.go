package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
)

// CodeIssuer issues the pickup and delivery codes of a new assignment.
type CodeIssuer interface {
	Issue(ctx context.Context) (delivery.Codes, error)
}
