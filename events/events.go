// Package events publishes front-desk domain events to RabbitMQ after the
// originating transaction has committed. Publishing is best-effort: callers
// log failures and carry on.
package events

import (
	"context"
	"sync"
	"time"
)

const (
	StayCheckedIn     = "stay.checked_in"
	StayCheckedOut    = "stay.checked_out"
	RoomShifted       = "room.shifted"
	RoomStatusChanged = "room.status_changed"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

type StayCheckedInEvent struct {
	GuestID    uint      `json:"guestId"`
	RoomID     uint      `json:"roomId"`
	RoomNumber string    `json:"roomNumber"`
	At         time.Time `json:"at"`
}

type StayCheckedOutEvent struct {
	GuestID    uint      `json:"guestId"`
	RoomID     uint      `json:"roomId"`
	RoomNumber string    `json:"roomNumber"`
	Total      string    `json:"total"`
	At         time.Time `json:"at"`
}

type RoomShiftedEvent struct {
	Reference    string    `json:"reference"`
	GuestID      uint      `json:"guestId"`
	FromRoom     string    `json:"fromRoom"`
	ToRoom       string    `json:"toRoom"`
	AuthorizedBy string    `json:"authorizedBy"`
	At           time.Time `json:"at"`
}

type RoomStatusChangedEvent struct {
	RoomID     uint   `json:"roomId"`
	RoomNumber string `json:"roomNumber"`
	From       string `json:"from"`
	To         string `json:"to"`
	Version    int64  `json:"version"`
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
func (Noop) Close() error                               { return nil }

// Message is one event captured by Memory.
type Message struct {
	RoutingKey string
	Payload    any
}

// Memory keeps published events in memory; used in tests and local runs.
type Memory struct {
	mu       sync.Mutex
	messages []Message
}

func (m *Memory) Publish(_ context.Context, routingKey string, payload any) error {
	m.mu.Lock()
	m.messages = append(m.messages, Message{RoutingKey: routingKey, Payload: payload})
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Keys returns the routing keys published so far, in order.
func (m *Memory) Keys() []string {
	msgs := m.Messages()
	keys := make([]string, len(msgs))
	for i, msg := range msgs {
		keys[i] = msg.RoutingKey
	}
	return keys
}
