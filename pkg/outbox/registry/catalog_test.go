package registry

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/gigboard-backend/pkg/config"
	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/enums"
	"github.com/angelmondragon/gigboard-backend/pkg/outbox"
	"github.com/angelmondragon/gigboard-backend/pkg/outbox/payloads"
)

func TestEventRegistryResolveBidAccepted(t *testing.T) {
	reg := newTestEventRegistry(t)

	bidID := uuid.New()
	payloadBytes := mustMarshal(t, payloads.BidAcceptedEvent{
		BidEvent: payloads.BidEvent{
			BidID:    bidID,
			GigID:    uuid.New(),
			BidderID: "bidder-1",
			Status:   "accepted",
			Amount:   5000,
		},
		PosterID:        "poster-1",
		ChargeID:        uuid.New(),
		ChargeReference: "ps_1_abc",
	})

	event := models.OutboxEvent{
		EventType:     enums.EventBidAccepted,
		AggregateType: enums.AggregateBid,
		AggregateID:   bidID,
		Payload:       mustEnvelope(t, payloadBytes),
	}

	resolved, err := reg.Resolve(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Descriptor.Topic != "bids-topic" {
		t.Fatalf("unexpected topic %q", resolved.Descriptor.Topic)
	}
	payload, ok := resolved.Payload.(*payloads.BidAcceptedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", resolved.Payload)
	}
	if payload.BidID != bidID || payload.ChargeReference != "ps_1_abc" {
		t.Fatalf("payload mismatch %+v", payload)
	}
	if resolved.Envelope.EventID == "" {
		t.Fatalf("envelope missing event id")
	}
}

func TestEventRegistryRoutesChargeEventsToPayments(t *testing.T) {
	reg := newTestEventRegistry(t)

	event := models.OutboxEvent{
		EventType:     enums.EventChargeReconciled,
		AggregateType: enums.AggregateLedgerEntry,
		AggregateID:   uuid.New(),
		Payload:       mustEnvelope(t, []byte(`{"reference":"ref-1","event":"charge.success","amount":100}`)),
	}

	resolved, err := reg.Resolve(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Descriptor.Topic != "payments-topic" {
		t.Fatalf("unexpected topic %q", resolved.Descriptor.Topic)
	}
	payload := resolved.Payload.(*payloads.ChargeReconciledEvent)
	if payload.Reference != "ref-1" || payload.Amount != 100 {
		t.Fatalf("payload mismatch %+v", payload)
	}
}

func TestEventRegistryResolveRejectsBadRows(t *testing.T) {
	reg := newTestEventRegistry(t)

	cases := map[string]models.OutboxEvent{
		"unknown event": {
			EventType:     enums.OutboxEventType("gig_deleted"),
			AggregateType: enums.AggregateBid,
			AggregateID:   uuid.New(),
			Payload:       mustEnvelope(t, []byte(`{}`)),
		},
		"aggregate mismatch": {
			EventType:     enums.EventBidCreated,
			AggregateType: enums.AggregateCharge,
			AggregateID:   uuid.New(),
			Payload:       mustEnvelope(t, []byte(`{}`)),
		},
		"missing aggregate id": {
			EventType:     enums.EventBidCreated,
			AggregateType: enums.AggregateBid,
			AggregateID:   uuid.Nil,
			Payload:       mustEnvelope(t, []byte(`{}`)),
		},
		"null payload": {
			EventType:     enums.EventBidCreated,
			AggregateType: enums.AggregateBid,
			AggregateID:   uuid.New(),
			Payload:       mustEnvelope(t, []byte("null")),
		},
		"broken envelope": {
			EventType:     enums.EventBidCreated,
			AggregateType: enums.AggregateBid,
			AggregateID:   uuid.New(),
			Payload:       json.RawMessage(`{"version":`),
		},
	}

	for name, event := range cases {
		_, err := reg.Resolve(event)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		var nonRetry NonRetryableError
		if !errors.As(err, &nonRetry) {
			t.Fatalf("%s: expected non-retryable error, got %T", name, err)
		}
	}
}

func TestNewEventRegistryRequiresTopics(t *testing.T) {
	if _, err := NewEventRegistry(config.PubSubConfig{BidsTopic: "bids"}); err == nil {
		t.Fatal("expected error for missing payments topic")
	}
}

func TestEventRegistryTopics(t *testing.T) {
	reg := newTestEventRegistry(t)
	topics := reg.Topics()
	sort.Strings(topics)
	if len(topics) != 2 || topics[0] != "bids-topic" || topics[1] != "payments-topic" {
		t.Fatalf("unexpected topics %v", topics)
	}
}

func newTestEventRegistry(t *testing.T) *EventRegistry {
	t.Helper()
	reg, err := NewEventRegistry(config.PubSubConfig{
		BidsTopic:     "bids-topic",
		PaymentsTopic: "payments-topic",
	})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func mustEnvelope(t *testing.T, payload []byte) json.RawMessage {
	t.Helper()
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return data
}

func TestCatalogCoversEveryEventType(t *testing.T) {
	reg := newTestEventRegistry(t)
	for _, eventType := range []enums.OutboxEventType{
		enums.EventBidCreated,
		enums.EventBidUpdated,
		enums.EventBidCountered,
		enums.EventBidRejected,
		enums.EventBidAccepted,
		enums.EventChargeOpened,
		enums.EventChargeReconciled,
	} {
		desc, ok := reg.byType[eventType]
		if !ok {
			t.Fatalf("%s is not routed", eventType)
		}
		if desc.Topic == "" || desc.PayloadFactory == nil {
			t.Fatalf("%s has an incomplete descriptor: %+v", eventType, desc)
		}
	}
}
