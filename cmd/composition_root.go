package cmd

import (
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	kafkaout "fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/otp"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/assignmentrepo"
	"fulfillment/internal/adapters/out/postgres/directory"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/policyrepo"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/telemetry"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg         Config
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	clock       clock.Clock
	issuer      ports.CodeIssuer
	publisher   *kafkaout.Publisher
	instruments *telemetry.Instruments
	logger      *slog.Logger
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	instruments *telemetry.Instruments,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	issuer, err := otp.NewIssuer(cfg.OtpLength)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		cfg:         cfg,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:       clock.NewSystem(cfg.BusinessTimezone),
		issuer:      issuer,
		publisher:   kafkaout.NewPublisher(cfg.KafkaBrokers, cfg.KafkaLifecycleTopic, instruments),
		instruments: instruments,
		logger:      logger,
	}, nil
}

// Close releases the Kafka writer.
func (c *CompositionRoot) Close() error {
	return c.publisher.Close()
}

// Commands

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateAssignPartnerCommandHandler() commands.AssignPartnerCommandHandler {
	var f commands.AssignmentUoWFactory = FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignPartnerCommandHandler(f, c.geoDirectory(), c.issuer, c.clock, c.logger)
}

func (c *CompositionRoot) CreateConfirmItemCommandHandler() commands.ConfirmItemCommandHandler {
	return commands.NewConfirmItemCommandHandler(
		c.lifecycleUoWFactory(), c.CreateAssignPartnerCommandHandler(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateRejectItemCommandHandler() commands.RejectItemCommandHandler {
	return commands.NewRejectItemCommandHandler(c.lifecycleUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateCancelItemCommandHandler() commands.CancelItemCommandHandler {
	return commands.NewCancelItemCommandHandler(c.lifecycleUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateDeliveryCommandHandler() commands.DeliveryCommandHandler {
	return commands.NewDeliveryCommandHandler(
		c.lifecycleUoWFactory(), c.CreateAssignPartnerCommandHandler(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateAutoApproveCommandHandler() commands.AutoApproveCommandHandler {
	var f commands.LifecyclePolicyUoWFactory = FuncLifecyclePolicyUoWFactory(func() commands.LifecyclePolicyUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAutoApproveCommandHandler(f, c.CreateConfirmItemCommandHandler(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateRetryAssignmentsCommandHandler() commands.RetryAssignmentsCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRetryAssignmentsCommandHandler(f, c.CreateAssignPartnerCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() commands.RelayOutboxCommandHandler {
	outbox := outboxrepo.NewGormOutboxRepository(c.gormDB, c.clock.Now)
	return commands.NewRelayOutboxCommandHandler(outbox, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateUpdateVendorPolicyCommandHandler() commands.UpdateVendorPolicyCommandHandler {
	var f commands.PolicyUoWFactory = FuncPolicyUoWFactory(func() commands.PolicyUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateVendorPolicyCommandHandler(f)
}

func (c *CompositionRoot) CreateRegisterPartnerCommandHandler() commands.RegisterPartnerCommandHandler {
	return commands.NewRegisterPartnerCommandHandler(c.partnerUoWFactory())
}

func (c *CompositionRoot) CreateSetPartnerAvailabilityCommandHandler() commands.SetPartnerAvailabilityCommandHandler {
	return commands.NewSetPartnerAvailabilityCommandHandler(
		c.partnerUoWFactory(), c.CreateRetryAssignmentsCommandHandler(), c.cfg.AssignmentRetryLimit, c.logger)
}

// Queries run outside a unit of work, so the repositories get no tracker.

func (c *CompositionRoot) CreateGetItemStatusQueryHandler() queries.GetItemStatusQueryHandler {
	return queries.NewGetItemStatusQueryHandler(c.orders(), c.assignments(), c.policies(), c.clock)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.orders(), c.assignments(), c.policies(), c.clock)
}

func (c *CompositionRoot) CreateGetVendorQueueQueryHandler() queries.GetVendorQueueQueryHandler {
	return queries.NewGetVendorQueueQueryHandler(c.orders(), c.assignments(), c.policies(), c.geoDirectory(), c.clock)
}

// HTTP and jobs

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		PlaceOrder:      c.CreatePlaceOrderCommandHandler(),
		AssignPartner:   c.CreateAssignPartnerCommandHandler(),
		ConfirmItem:     c.CreateConfirmItemCommandHandler(),
		RejectItem:      c.CreateRejectItemCommandHandler(),
		CancelItem:      c.CreateCancelItemCommandHandler(),
		Delivery:        c.CreateDeliveryCommandHandler(),
		UpdatePolicy:    c.CreateUpdateVendorPolicyCommandHandler(),
		RegisterPartner: c.CreateRegisterPartnerCommandHandler(),
		SetAvailability: c.CreateSetPartnerAvailabilityCommandHandler(),
		ItemStatus:      c.CreateGetItemStatusQueryHandler(),
		Order:           c.CreateGetOrderQueryHandler(),
		VendorQueue:     c.CreateGetVendorQueueQueryHandler(),
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewOutboxRelayJob(c.CreateRelayOutboxCommandHandler(),
			c.cfg.OutboxRelaySchedule, c.cfg.OutboxBatchSize, c.instruments, c.logger),
		jobs.NewAutoApprovalJob(c.CreateAutoApproveCommandHandler(),
			c.cfg.AutoApprovalSchedule, c.cfg.AutoApprovalBatchSize, c.instruments, c.logger),
		jobs.NewAssignmentRetryJob(c.CreateRetryAssignmentsCommandHandler(),
			c.cfg.AssignmentRetrySchedule, c.cfg.AssignmentRetryLimit, c.instruments, c.logger),
	)
}

func (c *CompositionRoot) lifecycleUoWFactory() commands.LifecycleUoWFactory {
	return FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) partnerUoWFactory() commands.PartnerUoWFactory {
	return FuncPartnerUoWFactory(func() commands.PartnerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) geoDirectory() ports.GeoDirectory {
	return directory.NewGormGeoDirectory(c.gormDB)
}

func (c *CompositionRoot) orders() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(c.gormDB, nil)
}

func (c *CompositionRoot) assignments() ports.AssignmentRepository {
	return assignmentrepo.NewGormAssignmentRepository(c.gormDB, nil)
}

func (c *CompositionRoot) policies() ports.PolicyRepository {
	return policyrepo.NewGormPolicyRepository(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncLifecycleUoWFactory func() commands.LifecycleUoW

func (f FuncLifecycleUoWFactory) Create() commands.LifecycleUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}

type FuncPartnerUoWFactory func() commands.PartnerUoW

func (f FuncPartnerUoWFactory) Create() commands.PartnerUoW {
	return f()
}

type FuncLifecyclePolicyUoWFactory func() commands.LifecyclePolicyUoW

func (f FuncLifecyclePolicyUoWFactory) Create() commands.LifecyclePolicyUoW {
	return f()
}

type FuncPolicyUoWFactory func() commands.PolicyUoW

func (f FuncPolicyUoWFactory) Create() commands.PolicyUoW {
	return f()
}
