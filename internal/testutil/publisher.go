package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
)

// PublishedEvent is one event captured by MockPublisher
type PublishedEvent struct {
	RoutingKey string
	EventData  interface{}
	RawJSON    []byte
}

// MockPublisher records events in memory instead of sending them to RabbitMQ.
// Set Err to make every Publish call fail.
type MockPublisher struct {
	mu     sync.RWMutex
	events []PublishedEvent
	closed bool

	Err error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	if m.Err != nil {
		return m.Err
	}

	jsonData, err := json.Marshal(eventData)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, PublishedEvent{
		RoutingKey: routingKey,
		EventData:  eventData,
		RawJSON:    jsonData,
	})
	return nil
}

func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Keys returns the routing keys in publish order
func (m *MockPublisher) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.events))
	for _, e := range m.events {
		keys = append(keys, e.RoutingKey)
	}
	return keys
}

func (m *MockPublisher) CountByKey(routingKey string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, e := range m.events {
		if e.RoutingKey == routingKey {
			count++
		}
	}
	return count
}

// LastByKey returns the most recent event with routingKey, or nil
func (m *MockPublisher) LastByKey(routingKey string) *PublishedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].RoutingKey == routingKey {
			event := m.events[i]
			return &event
		}
	}
	return nil
}

// DecodeLast unmarshals the JSON of the latest routingKey event into target.
func (m *MockPublisher) DecodeLast(t *testing.T, routingKey string, target interface{}) {
	t.Helper()

	event := m.LastByKey(routingKey)
	if event == nil {
		t.Fatalf("No event with routing key '%s' was published", routingKey)
	}
	if err := json.Unmarshal(event.RawJSON, target); err != nil {
		t.Fatalf("Failed to decode %s event: %v", routingKey, err)
	}
}

func (m *MockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = nil
}

func (m *MockPublisher) AssertPublished(t *testing.T, routingKey string, expected int) {
	t.Helper()

	if count := m.CountByKey(routingKey); count != expected {
		t.Errorf("Expected %d events with routing key '%s', got %d (published: %v)", expected, routingKey, count, m.Keys())
	}
}

func (m *MockPublisher) AssertNothingPublished(t *testing.T) {
	t.Helper()

	if keys := m.Keys(); len(keys) > 0 {
		t.Errorf("Expected no events, got %v", keys)
	}
}
