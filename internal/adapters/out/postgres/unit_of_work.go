// Package postgres provides the GORM-based unit of work of the fulfillment
// engine. A unit of work spans one business transaction: every repository it
// hands out shares the transaction, and the lifecycle events raised by the
// aggregates those repositories stored are written to the outbox table in the
// same transaction on Commit.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.OrderRepository().UpdateItem(ctx, item); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each goroutine must use its own UnitOfWork instance.
package postgres

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/assignmentrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/partnerrepo"
	"fulfillment/internal/adapters/out/postgres/policyrepo"
	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh unit of work with its own transaction state and
// tracked aggregates.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction and collects the
// aggregates stored through its repositories.
type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	tracked []events.Source
}

// Begin starts the transaction. Calling it twice does not nest.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}
	return nil
}

// Commit drains the events of every tracked aggregate into the outbox and
// commits. If writing the outbox fails the whole transaction is rolled back.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	var pending []events.Event
	for _, src := range uow.tracked {
		pending = append(pending, src.PullEvents()...)
	}
	uow.tracked = nil

	if err := outboxrepo.Append(ctx, uow.tx, pending); err != nil {
		uow.tx.Rollback()
		uow.tx = nil
		return err
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction and the events of tracked aggregates.
// It returns gorm.ErrInvalidTransaction after Commit, which deferred callers
// ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	for _, src := range uow.tracked {
		src.PullEvents()
	}
	uow.tracked = nil

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// TrackAggregate registers an aggregate whose events must reach the outbox.
// Repositories call it after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(source events.Source) {
	uow.tracked = append(uow.tracked, source)
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) AssignmentRepository() ports.AssignmentRepository {
	return assignmentrepo.NewGormAssignmentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) PartnerRepository() ports.PartnerRepository {
	return partnerrepo.NewGormPartnerRepository(uow.conn())
}

func (uow *GormUnitOfWork) PolicyRepository() ports.PolicyRepository {
	return policyrepo.NewGormPolicyRepository(uow.conn())
}

// conn returns the active transaction, or the pool when none is open.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
