package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/geo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/vendor"
)

// Requests

type AddressRequest struct {
	Line    string `json:"line"`
	Pincode string `json:"pincode"`
}

type OrderItemRequest struct {
	VendorID    string `json:"vendor_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Notes       string `json:"notes"`
}

type PlaceOrderRequest struct {
	CustomerID    string             `json:"customer_id"`
	Address       AddressRequest     `json:"address"`
	SlotID        *string            `json:"slot_id"`
	PaymentStatus string             `json:"payment_status"`
	Total         *string            `json:"total"`
	Items         []OrderItemRequest `json:"items"`
}

type AssignRequest struct {
	PartnerID *string `json:"partner_id"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type CodeRequest struct {
	Code string `json:"code"`
}

type WindowBody struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type PolicyBody struct {
	VendorID          string      `json:"vendor_id,omitempty"`
	AutoApprove       bool        `json:"auto_approve"`
	TimeoutMinutes    int         `json:"timeout_minutes"`
	AutoApproveUnder  *string     `json:"auto_approve_under"`
	BusinessHours     *WindowBody `json:"business_hours,omitempty"`
	BusinessHoursOnly bool        `json:"business_hours_only"`
	Version           int64       `json:"version"`
}

type RegisterPartnerRequest struct {
	Name        string   `json:"name"`
	Pincodes    []string `json:"pincodes"`
	SectorIDs   []string `json:"sector_ids"`
	MaxPerSlot  int      `json:"max_per_slot"`
	SuccessRate float64  `json:"success_rate"`
}

type AvailabilityRequest struct {
	Available *bool `json:"available"`
}

// Responses

type PlacedOrderResponse struct {
	OrderID string   `json:"order_id"`
	ItemIDs []string `json:"item_ids"`
	Total   string   `json:"total"`
}

type AssignmentResponse struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id,omitempty"`
	PartnerID  string    `json:"partner_id"`
	Status     string    `json:"status"`
	Mode       string    `json:"mode"`
	Active     *bool     `json:"active,omitempty"`
	AssignedAt time.Time `json:"assigned_at"`
}

type ItemResponse struct {
	ID               string              `json:"id"`
	OrderID          string              `json:"order_id"`
	VendorID         string              `json:"vendor_id"`
	ProductID        string              `json:"product_id"`
	ProductName      string              `json:"product_name"`
	Quantity         int                 `json:"quantity"`
	UnitPrice        string              `json:"unit_price"`
	LineTotal        string              `json:"line_total"`
	Notes            string              `json:"notes,omitempty"`
	Status           string              `json:"status"`
	CurrentStatus    string              `json:"current_status"`
	CancelReason     string              `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	ConfirmedAt      *time.Time          `json:"confirmed_at,omitempty"`
	CancelledAt      *time.Time          `json:"cancelled_at,omitempty"`
	DeliveredAt      *time.Time          `json:"delivered_at,omitempty"`
	MinutesRemaining *int                `json:"minutes_remaining,omitempty"`
	Urgent           bool                `json:"urgent"`
	Assignment       *AssignmentResponse `json:"assignment,omitempty"`
	Warning          string              `json:"warning,omitempty"`
}

type OrderResponse struct {
	ID            string         `json:"id"`
	CustomerID    string         `json:"customer_id"`
	Address       AddressRequest `json:"address"`
	SlotID        *string        `json:"slot_id,omitempty"`
	PaymentStatus string         `json:"payment_status"`
	Total         string         `json:"total"`
	CreatedAt     time.Time      `json:"created_at"`
	Items         []ItemResponse `json:"items"`
}

type ItemTransitionResponse struct {
	Item    ItemStateResponse `json:"item"`
	Outcome string            `json:"outcome"`
}

// ItemStateResponse is the stored state of an item right after a command.
type ItemStateResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	CancelReason string `json:"cancel_reason,omitempty"`
	Version      int64  `json:"version"`
}

type ConfirmResponse struct {
	Item            ItemStateResponse   `json:"item"`
	Outcome         string              `json:"outcome"`
	AssignmentState string              `json:"assignment_state"`
	Assignment      *AssignmentResponse `json:"assignment,omitempty"`
	AssignmentError string              `json:"assignment_error,omitempty"`
}

type AssignmentTransitionResponse struct {
	Assignment   AssignmentResponse `json:"assignment"`
	Outcome      string             `json:"outcome"`
	Reassignment *ConfirmResponse   `json:"reassignment,omitempty"`
}

type AssignResultResponse struct {
	Assignment AssignmentResponse `json:"assignment"`
	Outcome    string             `json:"outcome"`
}

type PendingEntryResponse struct {
	Item         ItemResponse `json:"item"`
	AutoEligible bool         `json:"auto_eligible"`
	SkipReason   string       `json:"skip_reason,omitempty"`
}

type SlotResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type PreparationGroupResponse struct {
	Slot     *SlotResponse  `json:"slot"`
	Priority string         `json:"priority"`
	Items    []ItemResponse `json:"items"`
}

type VendorQueueResponse struct {
	VendorID    string                     `json:"vendor_id"`
	Policy      PolicyBody                 `json:"policy"`
	Pending     []PendingEntryResponse     `json:"pending"`
	Preparation []PreparationGroupResponse `json:"preparation"`
}

type AvailabilityResponse struct {
	PartnerID string `json:"partner_id"`
	Available bool   `json:"available"`
	Changed   bool   `json:"changed"`
	Retried   *int   `json:"retried_orders,omitempty"`
	Assigned  *int   `json:"assigned_orders,omitempty"`
}

type PartnerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Mapping

func assignmentResponse(a *delivery.Assignment) AssignmentResponse {
	active := a.IsActive()
	return AssignmentResponse{
		ID:         a.ID().String(),
		OrderID:    a.OrderID().String(),
		PartnerID:  a.PartnerID().String(),
		Status:     a.Status().String(),
		Mode:       string(a.Mode()),
		Active:     &active,
		AssignedAt: a.AssignedAt(),
	}
}

func itemStateResponse(item *order.Item) ItemStateResponse {
	if item == nil {
		return ItemStateResponse{}
	}
	return ItemStateResponse{
		ID:           item.ID().String(),
		Status:       item.Status().String(),
		CancelReason: item.CancelReason(),
		Version:      item.Version(),
	}
}

func confirmResponse(r commands.ConfirmItemResult) ConfirmResponse {
	resp := ConfirmResponse{
		Item:            itemStateResponse(r.Item),
		Outcome:         r.Outcome.String(),
		AssignmentState: string(r.AssignmentState),
	}
	if r.Assignment != nil {
		a := assignmentResponse(r.Assignment)
		resp.Assignment = &a
	}
	if r.AssignmentError != nil {
		resp.AssignmentError = r.AssignmentError.Error()
	}
	return resp
}

func assignmentTransitionResponse(r commands.AssignmentTransitionResult) AssignmentTransitionResponse {
	resp := AssignmentTransitionResponse{Outcome: r.Outcome.String()}
	if r.Assignment != nil {
		resp.Assignment = assignmentResponse(r.Assignment)
	}
	if r.Reassignment != nil {
		re := confirmResponse(*r.Reassignment)
		resp.Reassignment = &re
	}
	return resp
}

func itemResponse(v queries.ItemView) ItemResponse {
	resp := ItemResponse{
		ID:               v.ID.String(),
		OrderID:          v.OrderID.String(),
		VendorID:         v.VendorID.String(),
		ProductID:        v.Product.ID.String(),
		ProductName:      v.Product.Name,
		Quantity:         v.Quantity,
		UnitPrice:        v.UnitPrice.String(),
		LineTotal:        v.LineTotal.String(),
		Notes:            v.Notes,
		Status:           v.Status.String(),
		CurrentStatus:    string(v.CurrentStatus),
		CancelReason:     v.CancelReason,
		CreatedAt:        v.CreatedAt,
		ConfirmedAt:      v.ConfirmedAt,
		CancelledAt:      v.CancelledAt,
		DeliveredAt:      v.DeliveredAt,
		MinutesRemaining: v.MinutesRemaining,
		Urgent:           v.Urgent,
		Warning:          v.Warning,
	}
	if v.Assignment != nil {
		resp.Assignment = &AssignmentResponse{
			ID:         v.Assignment.ID.String(),
			PartnerID:  v.Assignment.PartnerID.String(),
			Status:     v.Assignment.Status.String(),
			Mode:       string(v.Assignment.Mode),
			AssignedAt: v.Assignment.AssignedAt,
		}
	}
	return resp
}

func itemResponses(views []queries.ItemView) []ItemResponse {
	out := make([]ItemResponse, len(views))
	for i, v := range views {
		out[i] = itemResponse(v)
	}
	return out
}

func orderResponse(v queries.OrderView) OrderResponse {
	return OrderResponse{
		ID:         v.ID.String(),
		CustomerID: v.CustomerID.String(),
		Address: AddressRequest{
			Line:    v.Address.Line,
			Pincode: v.Address.Pincode.String(),
		},
		SlotID:        optionalString(v.SlotID),
		PaymentStatus: string(v.Payment),
		Total:         v.Total.String(),
		CreatedAt:     v.CreatedAt,
		Items:         itemResponses(v.Items),
	}
}

func policyBody(p vendor.Policy) PolicyBody {
	body := PolicyBody{
		VendorID:          p.VendorID.String(),
		AutoApprove:       p.AutoApprove,
		TimeoutMinutes:    p.TimeoutMinutes,
		BusinessHours:     &WindowBody{Start: p.BusinessHours.Start.String(), End: p.BusinessHours.End.String()},
		BusinessHoursOnly: p.BusinessHoursOnly,
		Version:           p.Version,
	}
	if p.AutoApproveUnder != nil {
		limit := p.AutoApproveUnder.String()
		body.AutoApproveUnder = &limit
	}
	return body
}

func slotResponse(s *geo.Slot) *SlotResponse {
	if s == nil {
		return nil
	}
	return &SlotResponse{
		ID:    s.ID.String(),
		Name:  s.Name,
		Start: s.Window.Start.String(),
		End:   s.Window.End.String(),
	}
}

func vendorQueueResponse(q queries.VendorQueue) VendorQueueResponse {
	resp := VendorQueueResponse{
		VendorID:    q.VendorID.String(),
		Policy:      policyBody(q.Policy),
		Pending:     make([]PendingEntryResponse, len(q.Pending)),
		Preparation: make([]PreparationGroupResponse, len(q.Preparation)),
	}
	for i, e := range q.Pending {
		resp.Pending[i] = PendingEntryResponse{
			Item:         itemResponse(e.Item),
			AutoEligible: e.Decision.Eligible,
			SkipReason:   string(e.Decision.Reason),
		}
	}
	for i, g := range q.Preparation {
		resp.Preparation[i] = PreparationGroupResponse{
			Slot:     slotResponse(g.Slot),
			Priority: g.Priority.String(),
			Items:    itemResponses(g.Items),
		}
	}
	return resp
}

func optionalString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
