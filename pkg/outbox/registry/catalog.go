// Package registry maps outbox event types to their Pub/Sub topic and typed
// payload.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/gigboard-backend/pkg/config"
	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/enums"
	"github.com/angelmondragon/gigboard-backend/pkg/outbox"
	"github.com/angelmondragon/gigboard-backend/pkg/outbox/payloads"
)

type stream int

const (
	bidStream stream = iota
	paymentStream
)

type catalogEntry struct {
	eventType enums.OutboxEventType
	aggregate enums.OutboxAggregateType
	stream    stream
	payload   func() any
}

func bidPayload() any { return &payloads.BidEvent{} }

var catalog = []catalogEntry{
	{enums.EventBidCreated, enums.AggregateBid, bidStream, bidPayload},
	{enums.EventBidUpdated, enums.AggregateBid, bidStream, bidPayload},
	{enums.EventBidCountered, enums.AggregateBid, bidStream, bidPayload},
	{enums.EventBidRejected, enums.AggregateBid, bidStream, bidPayload},
	{enums.EventBidAccepted, enums.AggregateBid, bidStream, func() any { return &payloads.BidAcceptedEvent{} }},
	{enums.EventChargeOpened, enums.AggregateCharge, paymentStream, func() any { return &payloads.ChargeOpenedEvent{} }},
	{enums.EventChargeReconciled, enums.AggregateLedgerEntry, paymentStream, func() any { return &payloads.ChargeReconciledEvent{} }},
}

// EventDescriptor is the routing decision for one event type.
type EventDescriptor struct {
	EventType      enums.OutboxEventType
	AggregateType  enums.OutboxAggregateType
	Topic          string
	PayloadFactory func() any
}

type ResolvedEvent struct {
	Descriptor EventDescriptor
	Envelope   outbox.PayloadEnvelope
	Payload    any
}

type EventRegistry struct {
	byType map[enums.OutboxEventType]EventDescriptor
}

// NonRetryableError marks a row that can never publish as stored.
type NonRetryableError struct {
	Err error
}

func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}

func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

func (e NonRetryableError) Unwrap() error { return e.Err }

func NewEventRegistry(cfg config.PubSubConfig) (*EventRegistry, error) {
	topics := map[stream]string{
		bidStream:     cfg.BidsTopic,
		paymentStream: cfg.PaymentsTopic,
	}
	var missing []error
	if cfg.BidsTopic == "" {
		missing = append(missing, errors.New("bids topic is required"))
	}
	if cfg.PaymentsTopic == "" {
		missing = append(missing, errors.New("payments topic is required"))
	}
	if err := errors.Join(missing...); err != nil {
		return nil, err
	}

	reg := &EventRegistry{byType: make(map[enums.OutboxEventType]EventDescriptor, len(catalog))}
	for _, entry := range catalog {
		reg.byType[entry.eventType] = EventDescriptor{
			EventType:      entry.eventType,
			AggregateType:  entry.aggregate,
			Topic:          topics[entry.stream],
			PayloadFactory: entry.payload,
		}
	}
	return reg, nil
}

// Topics returns each routed topic once.
func (r *EventRegistry) Topics() []string {
	var topics []string
	seen := make(map[string]bool)
	for _, desc := range r.byType {
		if !seen[desc.Topic] {
			seen[desc.Topic] = true
			topics = append(topics, desc.Topic)
		}
	}
	return topics
}

// Resolve checks the row against its descriptor and decodes the typed
// payload. Every failure is non-retryable: the row will not change.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	desc, ok := r.byType[event.EventType]
	switch {
	case !ok:
		return nil, NewNonRetryableError(fmt.Errorf("unsupported event type %s", event.EventType))
	case desc.AggregateType != event.AggregateType:
		return nil, NewNonRetryableError(fmt.Errorf("aggregate mismatch: expected %s got %s", desc.AggregateType, event.AggregateType))
	case event.AggregateID == uuid.Nil:
		return nil, NewNonRetryableError(errors.New("missing aggregate_id"))
	}

	envelope, err := outbox.OpenEnvelope(event.Payload)
	if err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("%s: %w", event.EventType, err))
	}
	payload := desc.PayloadFactory()
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode %s payload: %w", event.EventType, err))
	}
	return &ResolvedEvent{Descriptor: desc, Envelope: envelope, Payload: payload}, nil
}
