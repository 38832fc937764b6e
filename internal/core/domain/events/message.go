package events

import (
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Message is the JSON wire form of an Event, as stored in the outbox and
// published to Kafka.
type Message struct {
	EventID      string    `json:"event_id"`
	Kind         Kind      `json:"kind"`
	NaturalKey   string    `json:"natural_key"`
	OrderID      string    `json:"order_id"`
	ItemID       string    `json:"item_id"`
	VendorID     string    `json:"vendor_id"`
	AssignmentID string    `json:"assignment_id,omitempty"`
	PartnerID    string    `json:"partner_id,omitempty"`
	ActorRole    string    `json:"actor_role"`
	ActorID      string    `json:"actor_id"`
	ActorName    string    `json:"actor_name,omitempty"`
	Amount       string    `json:"amount,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e Event) Message() Message {
	msg := Message{
		EventID:    e.ID.String(),
		Kind:       e.Kind,
		NaturalKey: e.NaturalKey(),
		OrderID:    e.OrderID.String(),
		ItemID:     e.ItemID.String(),
		VendorID:   e.VendorID.String(),
		ActorRole:  string(e.Actor.Role),
		ActorID:    e.Actor.ID,
		ActorName:  e.Actor.Name,
		Amount:     e.Amount,
		Reason:     e.Reason,
		OccurredAt: e.OccurredAt.UTC(),
	}
	if e.AssignmentID != nil {
		msg.AssignmentID = e.AssignmentID.String()
	}
	if e.PartnerID != nil {
		msg.PartnerID = e.PartnerID.String()
	}
	return msg
}

// Encode marshals the event's wire form.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e.Message())
}

// DecodeMessage parses a wire message and checks the fields consumers rely on.
func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("decode lifecycle event: %w", err)
	}
	if msg.NaturalKey == "" || msg.Kind == "" {
		return Message{}, fmt.Errorf("decode lifecycle event: missing kind or natural key")
	}
	if _, err := kernel.UUIDFromString(msg.ItemID); err != nil {
		return Message{}, fmt.Errorf("decode lifecycle event: %w", err)
	}
	return msg, nil
}
