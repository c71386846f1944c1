package ws_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"oshxona/internal/adapters/in/ws"
	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	received chan ports.Event
	writeErr error
	closed   chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		received: make(chan ports.Event, 16),
		closed:   make(chan struct{}),
	}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	event, ok := v.(ports.Event)
	if !ok {
		return errors.New("unexpected payload type")
	}
	c.received <- event
	return nil
}

func (c *fakeConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

func (c *fakeConn) waitEvent(t *testing.T) ports.Event {
	t.Helper()
	select {
	case event := <-c.received:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ports.Event{}
	}
}

func startHub(t *testing.T) *ws.Hub {
	t.Helper()
	hub := ws.NewHub(slog.New(slog.DiscardHandler))
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func newOrderEvent(topic string) ports.Event {
	return ports.Event{
		Kind:  ports.EventNewOrder,
		Topic: topic,
		At:    time.Now().UTC(),
		Payload: map[string]any{
			"order_code": "ORD-1A2B3C4D",
		},
	}
}

func Test_Hub_DeliversToTopicSubscribers(t *testing.T) {
	hub := startHub(t)
	topic := ports.BranchTopic(kernel.NewUUID())

	subscriber := newFakeConn()
	hub.Subscribe(subscriber, []string{topic})

	hub.Publish(newOrderEvent(topic))

	event := subscriber.waitEvent(t)
	assert.Equal(t, ports.EventNewOrder, event.Kind)
	assert.Equal(t, topic, event.Topic)
	assert.Equal(t, "ORD-1A2B3C4D", event.Payload["order_code"])
}

func Test_Hub_DoesNotLeakAcrossTopics(t *testing.T) {
	hub := startHub(t)
	branchTopic := ports.BranchTopic(kernel.NewUUID())
	orderTopic := ports.OrderTopic("ORD-1A2B3C4D")

	branchSub := newFakeConn()
	orderSub := newFakeConn()
	hub.Subscribe(branchSub, []string{branchTopic})
	hub.Subscribe(orderSub, []string{orderTopic})

	hub.Publish(newOrderEvent(branchTopic))

	// The run loop processes events in order, so once the branch
	// subscriber has its event the order subscriber has been skipped.
	branchSub.waitEvent(t)
	assert.Empty(t, orderSub.received)
}

func Test_Hub_OneConnectionManyTopics(t *testing.T) {
	hub := startHub(t)
	first := ports.OrderTopic("ORD-AAAA1111")
	second := ports.OrderTopic("ORD-BBBB2222")

	subscriber := newFakeConn()
	hub.Subscribe(subscriber, []string{first, second})

	hub.Publish(newOrderEvent(first))
	hub.Publish(newOrderEvent(second))

	require.Equal(t, first, subscriber.waitEvent(t).Topic)
	require.Equal(t, second, subscriber.waitEvent(t).Topic)
}

func Test_Hub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := startHub(t)
	topic := ports.BranchTopic(kernel.NewUUID())
	sentinelTopic := ports.OrderTopic("ORD-SENTINEL")

	subscriber := newFakeConn()
	sentinel := newFakeConn()
	hub.Subscribe(subscriber, []string{topic})
	hub.Subscribe(sentinel, []string{sentinelTopic})

	hub.Unsubscribe(subscriber, []string{topic})

	hub.Publish(newOrderEvent(topic))
	hub.Publish(newOrderEvent(sentinelTopic))

	sentinel.waitEvent(t)
	assert.Empty(t, subscriber.received)

	select {
	case <-subscriber.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("unsubscribed connection was not closed")
	}
}

func Test_Hub_DropsClientOnWriteFailure(t *testing.T) {
	hub := startHub(t)
	topic := ports.BranchTopic(kernel.NewUUID())

	failing := newFakeConn()
	failing.writeErr = errors.New("broken pipe")
	healthy := newFakeConn()
	hub.Subscribe(failing, []string{topic})
	hub.Subscribe(healthy, []string{topic})

	hub.Publish(newOrderEvent(topic))
	healthy.waitEvent(t)

	select {
	case <-failing.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("failing connection was not closed")
	}

	// The failed connection stays gone on subsequent publishes.
	hub.Publish(newOrderEvent(topic))
	healthy.waitEvent(t)
}

func Test_Hub_ResubscribeAfterUnsubscribe(t *testing.T) {
	hub := startHub(t)
	topic := ports.OrderTopic("ORD-CCCC3333")

	subscriber := newFakeConn()
	hub.Subscribe(subscriber, []string{topic})
	hub.Unsubscribe(subscriber, []string{topic})

	replacement := newFakeConn()
	hub.Subscribe(replacement, []string{topic})

	hub.Publish(newOrderEvent(topic))
	assert.Equal(t, topic, replacement.waitEvent(t).Topic)
}

func Test_Hub_StopClosesConnections(t *testing.T) {
	hub := ws.NewHub(slog.New(slog.DiscardHandler))
	hub.Start()

	subscriber := newFakeConn()
	hub.Subscribe(subscriber, []string{ports.OrderTopic("ORD-DDDD4444")})

	hub.Stop()

	select {
	case <-subscriber.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not closed on hub stop")
	}
}
