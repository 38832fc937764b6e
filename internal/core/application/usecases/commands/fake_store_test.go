package commands_test

import (
	"context"
	"slices"
	"strings"
	"sync"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// fakeStore is an in-memory stand-in for the database used by the scenario
// tests. It keeps snapshots, so every read returns fresh aggregates, and it
// applies the same compare-and-swap and single-active-assignment rules as
// the postgres adapter.
type fakeStore struct {
	mu          sync.Mutex
	orders      map[kernel.UUID]order.OrderSnapshot
	items       map[kernel.UUID]order.ItemSnapshot
	assignments map[kernel.UUID]delivery.Snapshot
	partners    map[kernel.UUID]*delivery.Partner
	policies    map[kernel.UUID]vendor.Policy
	outbox      []events.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:      make(map[kernel.UUID]order.OrderSnapshot),
		items:       make(map[kernel.UUID]order.ItemSnapshot),
		assignments: make(map[kernel.UUID]delivery.Snapshot),
		partners:    make(map[kernel.UUID]*delivery.Partner),
		policies:    make(map[kernel.UUID]vendor.Policy),
	}
}

func (s *fakeStore) eventsOfKind(kind events.Kind) []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []events.Event
	for _, e := range s.outbox {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (s *fakeStore) assignmentsOf(orderID kernel.UUID) []delivery.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []delivery.Snapshot
	for _, a := range s.assignments {
		if a.OrderID.IsEqual(orderID) {
			out = append(out, a)
		}
	}
	return out
}

func (s *fakeStore) Create() *fakeUoW {
	return &fakeUoW{store: s}
}

type (
	fakeOrderFactory           struct{ store *fakeStore }
	fakeLifecycleFactory       struct{ store *fakeStore }
	fakeAssignmentFactory      struct{ store *fakeStore }
	fakeLifecyclePolicyFactory struct{ store *fakeStore }
)

func (f fakeOrderFactory) Create() commands.OrderUoW { return f.store.Create() }
func (f fakeLifecycleFactory) Create() commands.LifecycleUoW { return f.store.Create() }
func (f fakeAssignmentFactory) Create() commands.AssignmentUoW { return f.store.Create() }
func (f fakeLifecyclePolicyFactory) Create() commands.LifecyclePolicyUoW { return f.store.Create() }

type fakeUoW struct {
	store   *fakeStore
	tracked []events.Source
}

func (u *fakeUoW) Begin(context.Context) error { return nil }
func (u *fakeUoW) Rollback(context.Context) error { return nil }

func (u *fakeUoW) Commit(context.Context) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	for _, src := range u.tracked {
		u.store.outbox = append(u.store.outbox, src.PullEvents()...)
	}
	u.tracked = nil
	return nil
}

func (u *fakeUoW) track(src events.Source) { u.tracked = append(u.tracked, src) }

func (u *fakeUoW) OrderRepository() ports.OrderRepository { return fakeOrders{u} }
func (u *fakeUoW) AssignmentRepository() ports.AssignmentRepository { return fakeAssignments{u} }
func (u *fakeUoW) PartnerRepository() ports.PartnerRepository { return fakePartners{u} }
func (u *fakeUoW) PolicyRepository() ports.PolicyRepository { return fakePolicies{u} }

type fakeOrders struct{ uow *fakeUoW }

func (r fakeOrders) Add(_ context.Context, o *order.Order) error {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID()] = o.Snapshot()
	for _, item := range o.Items() {
		item.MarkPersisted(1)
		s.items[item.ID()] = item.Snapshot()
	}
	r.uow.track(o)
	return nil
}

func (r fakeOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restoreOrder(id)
}

func (r fakeOrders) GetByItem(_ context.Context, itemID kernel.UUID) (*order.Order, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("item", itemID)
	}
	return s.restoreOrder(item.OrderID)
}

func (r fakeOrders) UpdateItem(_ context.Context, item *order.Item) error {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.items[item.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("item", item.ID())
	}
	if stored.Version != item.Version() {
		return errs.NewConcurrencyConflictError("item", item.ID(), item.Version())
	}
	item.MarkPersisted(item.Version() + 1)
	s.items[item.ID()] = item.Snapshot()
	r.uow.track(item)
	return nil
}

func (r fakeOrders) ListPendingItems(_ context.Context, after ports.PageCursor, limit int) ([]*order.Item, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*order.Item
	for _, snap := range s.items {
		if snap.Status != order.Pending || !pastCursor(ports.PageCursor{CreatedAt: snap.CreatedAt, ID: snap.ID}, after) {
			continue
		}
		item, err := order.RestoreItem(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	slices.SortFunc(out, func(a, b *order.Item) int {
		return compareCursor(ports.ItemCursor(a), ports.ItemCursor(b))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r fakeOrders) ListVendorItems(context.Context, kernel.UUID, ...order.ItemStatus) ([]*order.Item, error) {
	return nil, nil
}

func (r fakeOrders) ListAwaitingAssignment(_ context.Context, after ports.PageCursor, limit int) ([]ports.OrderRef, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ports.OrderRef
	for orderID, snap := range s.orders {
		ref := ports.OrderRef{ID: orderID, CreatedAt: snap.CreatedAt}
		if !pastCursor(ref.Cursor(), after) {
			continue
		}
		hasConfirmed := false
		for _, item := range s.items {
			if item.OrderID.IsEqual(orderID) && item.Status == order.Confirmed {
				hasConfirmed = true
			}
		}
		if hasConfirmed && !s.hasAssignmentInProgress(orderID) {
			out = append(out, ref)
		}
	}
	slices.SortFunc(out, func(a, b ports.OrderRef) int { return compareCursor(a.Cursor(), b.Cursor()) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func compareCursor(a, b ports.PageCursor) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

func pastCursor(pos, after ports.PageCursor) bool {
	return after.IsZero() || compareCursor(pos, after) > 0
}

func (s *fakeStore) restoreOrder(id kernel.UUID) (*order.Order, error) {
	snap, ok := s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	var items []*order.Item
	for _, itemSnap := range s.items {
		if itemSnap.OrderID.IsEqual(id) {
			item, err := order.RestoreItem(itemSnap)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}
	slices.SortFunc(items, func(a, b *order.Item) int { return a.CreatedAt().Compare(b.CreatedAt()) })
	return order.RestoreOrder(snap, items)
}

func (s *fakeStore) hasActive(orderID kernel.UUID) bool {
	for _, a := range s.assignments {
		if a.OrderID.IsEqual(orderID) && a.Active {
			return true
		}
	}
	return false
}

func (s *fakeStore) hasAssignmentInProgress(orderID kernel.UUID) bool {
	for _, a := range s.assignments {
		if a.OrderID.IsEqual(orderID) && a.Active && a.Status != delivery.Delivered {
			return true
		}
	}
	return false
}

type fakeAssignments struct{ uow *fakeUoW }

func (r fakeAssignments) Add(_ context.Context, a *delivery.Assignment) error {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasActive(a.OrderID()) {
		return errs.NewConcurrencyConflictError("assignment", a.OrderID(), 0)
	}
	a.MarkPersisted(1)
	s.assignments[a.ID()] = a.Snapshot()
	r.uow.track(a)
	return nil
}

func (r fakeAssignments) Update(_ context.Context, a *delivery.Assignment) error {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.assignments[a.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("assignment", a.ID())
	}
	if stored.Version != a.Version() {
		return errs.NewConcurrencyConflictError("assignment", a.ID(), a.Version())
	}
	a.MarkPersisted(a.Version() + 1)
	s.assignments[a.ID()] = a.Snapshot()
	r.uow.track(a)
	return nil
}

func (r fakeAssignments) Get(_ context.Context, id kernel.UUID) (*delivery.Assignment, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.assignments[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("assignment", id)
	}
	return delivery.RestoreAssignment(snap)
}

func (r fakeAssignments) GetActiveByOrder(_ context.Context, orderID kernel.UUID) (*delivery.Assignment, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range s.assignments {
		if snap.OrderID.IsEqual(orderID) && snap.Active {
			return delivery.RestoreAssignment(snap)
		}
	}
	return nil, errs.NewObjectNotFoundError("active assignment", orderID)
}

func (r fakeAssignments) ListByOrder(_ context.Context, orderID kernel.UUID) ([]*delivery.Assignment, error) {
	var out []*delivery.Assignment
	for _, snap := range r.uow.store.assignmentsOf(orderID) {
		a, err := delivery.RestoreAssignment(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r fakeAssignments) ListActiveByOrders(context.Context, []kernel.UUID) ([]*delivery.Assignment, error) {
	return nil, nil
}

type fakePartners struct{ uow *fakeUoW }

func (r fakePartners) Add(_ context.Context, p *delivery.Partner) error {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partners[p.ID()] = p
	return nil
}

func (r fakePartners) Update(ctx context.Context, p *delivery.Partner) error {
	return r.Add(ctx, p)
}

func (r fakePartners) Get(_ context.Context, id kernel.UUID) (*delivery.Partner, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partners[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("partner", id)
	}
	return p, nil
}

func (r fakePartners) ListCandidates(context.Context, *kernel.UUID) ([]services.Candidate, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []services.Candidate
	for _, p := range s.partners {
		if !p.IsAvailable() {
			continue
		}
		c := services.Candidate{Partner: p}
		for _, a := range s.assignments {
			if a.Active && a.PartnerID.IsEqual(p.ID()) && !a.Status.IsTerminal() {
				c.ActiveAssignments++
			}
		}
		out = append(out, c)
	}
	return out, nil
}

type fakePolicies struct{ uow *fakeUoW }

func (r fakePolicies) Get(_ context.Context, vendorID kernel.UUID) (vendor.Policy, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.policies[vendorID]
	if !ok {
		return vendor.Policy{}, errs.NewObjectNotFoundError("policy", vendorID)
	}
	return p, nil
}

func (r fakePolicies) GetMany(_ context.Context, vendorIDs []kernel.UUID) (map[kernel.UUID]vendor.Policy, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[kernel.UUID]vendor.Policy)
	for _, id := range vendorIDs {
		if p, ok := s.policies[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r fakePolicies) Save(_ context.Context, policy vendor.Policy) (int64, error) {
	s := r.uow.store
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.policies[policy.VendorID]
	if ok && stored.Version != policy.Version {
		return 0, errs.NewConcurrencyConflictError("policy", policy.VendorID, policy.Version)
	}
	policy.Version++
	s.policies[policy.VendorID] = policy
	return policy.Version, nil
}
