package events

import (
	"context"
	"sync"

	"bondpay/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeRecordsGenerated      EventType = "records_generated"
	EventTypeRecordsRecalculated   EventType = "records_recalculated"
	EventTypeExpectedTotalsUpdated EventType = "expected_totals_updated"
	EventTypeDiscrepancyFound      EventType = "discrepancy_found"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// RecordsGeneratedEvent signals that payment records were persisted for an
// event for the first time
type RecordsGeneratedEvent struct {
	PaymentEventID int64
	EventType      models.EventType
	RecordCount    int
	TotalNet       decimal.Decimal
}

func (e RecordsGeneratedEvent) Type() EventType {
	return EventTypeRecordsGenerated
}

// RecordsRecalculatedEvent signals that an event's payment records were
// atomically replaced
type RecordsRecalculatedEvent struct {
	PaymentEventID int64
	EventType      models.EventType
	RecordCount    int
	TotalNet       decimal.Decimal
}

func (e RecordsRecalculatedEvent) Type() EventType {
	return EventTypeRecordsRecalculated
}

// ExpectedTotalsUpdatedEvent signals that a statement upload set an event's
// expected totals
type ExpectedTotalsUpdatedEvent struct {
	PaymentEventID      int64
	ExpectedNetMaturity decimal.Decimal
	ExpectedNetCoupon   decimal.Decimal
}

func (e ExpectedTotalsUpdatedEvent) Type() EventType {
	return EventTypeExpectedTotalsUpdated
}

// DiscrepancyFoundEvent signals that an audit flagged an event whose
// calculated totals drifted beyond tolerance from the expected totals
type DiscrepancyFoundEvent struct {
	PaymentEventID     int64
	MaturityDifference decimal.Decimal
	CouponDifference   decimal.Decimal
}

func (e DiscrepancyFoundEvent) Type() EventType {
	return EventTypeDiscrepancyFound
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus stashes events published during a unit of work and
// flushes them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events outlive the request that produced them, so they are emitted
	// with a background context rather than the transaction's context.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events. Called after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
