package ports

import (
	"time"

	"oshxona/internal/core/domain/model/kernel"
)

// EventKind identifies what happened.
type EventKind string

const (
	// EventNewOrder is published to the branch topic when an order is placed.
	EventNewOrder EventKind = "new_order"
	// EventStatusUpdate is published to the order and user topics on every
	// accepted status transition.
	EventStatusUpdate EventKind = "status_update"
	// EventCourierLocation is published to the branch topic on courier pings.
	EventCourierLocation EventKind = "courier_location"
	// EventCustomerArrived is published to the branch topic when a customer
	// checks in at a table. It does not correspond to a status transition.
	EventCustomerArrived EventKind = "customer_arrived"
	// EventOrderReminder is published to the branch topic for orders left
	// pending too long.
	EventOrderReminder EventKind = "order_reminder"
)

// Event is one notification delivered to subscribers of a topic.
type Event struct {
	Kind    EventKind      `json:"kind"`
	Topic   string         `json:"topic"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// BranchTopic names the topic staff of one branch listen on.
func BranchTopic(branchID kernel.UUID) string {
	return "branch:" + branchID.String()
}

// OrderTopic names the topic for watchers of a single order.
func OrderTopic(code string) string {
	return "order:" + code
}

// UserTopic names the topic for all orders of one customer.
func UserTopic(customerID kernel.UUID) string {
	return "user:" + customerID.String()
}

// NotificationBus defines the contract for best-effort fan-out of events.
//
// Delivery is at most once: only subscribers connected at publish time
// receive the event, there is no replay, and a reconnecting subscriber must
// re-subscribe to its topics. Publish never blocks on slow subscribers.
type NotificationBus interface {
	// Publish delivers the event to current subscribers of event.Topic.
	Publish(event Event)
}
