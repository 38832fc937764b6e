package ports

import (
	"context"
)

// UnitOfWorkFactory creates a UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. On Commit it also writes the
// events raised by every aggregate its repositories touched to the outbox,
// in the same transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	AssignmentRepository() AssignmentRepository
	PartnerRepository() PartnerRepository
	PolicyRepository() PolicyRepository
}
