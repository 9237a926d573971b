package outbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyData marks an envelope whose data is absent or JSON null.
var ErrEmptyData = errors.New("envelope data is empty")

type ActorRef struct {
	UserID string `json:"userId"`
}

// PayloadEnvelope is the JSON document stored in outbox_events.payload and
// published verbatim. Consumers dedupe on EventID.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// seal stamps a fresh event id and renders the envelope for storage.
func seal(event DomainEvent) (PayloadEnvelope, []byte, error) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return PayloadEnvelope{}, nil, fmt.Errorf("marshal %s payload: %w", event.EventType, err)
	}
	env := PayloadEnvelope{
		Version:    event.Version,
		EventID:    uuid.NewString(),
		OccurredAt: event.OccurredAt.UTC(),
		Actor:      event.Actor,
		Data:       data,
	}
	if env.Version == 0 {
		env.Version = 1
	}
	if event.OccurredAt.IsZero() {
		env.OccurredAt = time.Now().UTC()
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return PayloadEnvelope{}, nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return env, raw, nil
}

// OpenEnvelope decodes a stored payload and rejects envelopes carrying no data.
func OpenEnvelope(raw []byte) (PayloadEnvelope, error) {
	var env PayloadEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return PayloadEnvelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if data := bytes.TrimSpace(env.Data); len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return env, ErrEmptyData
	}
	return env, nil
}
