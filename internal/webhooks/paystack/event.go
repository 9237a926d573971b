package paystack

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/gigboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
)

// Event is the subset of a Paystack callback the reconciler reads.
type Event struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

type EventData struct {
	Reference string          `json:"reference"`
	Status    string          `json:"status,omitempty"`
	Currency  string          `json:"currency,omitempty"`
	Amount    json.RawMessage `json:"amount,omitempty"`
}

// ParseEvent decodes an already authenticated body.
func ParseEvent(raw []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return Event{}, pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, err, "decode webhook body")
	}
	event.Event = strings.TrimSpace(event.Event)
	event.Data.Reference = strings.TrimSpace(event.Data.Reference)
	return event, nil
}

func outcomeFor(eventType string) (enums.ChargeStatus, bool) {
	return enums.ChargeStatusFor(enums.LedgerEntryType(eventType))
}

// amount parses data.amount in minor units. Integers, integral decimals and
// numeric strings are accepted; ok is false when the field is absent.
func (d EventData) amount() (value int64, ok bool, err error) {
	raw := bytes.TrimSpace(d.Amount)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false, nil
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false, pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, err, "decode amount")
		}
	}
	parsed, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return 0, false, pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, err, "parse amount")
	}
	if !parsed.IsInteger() {
		return 0, false, pkgerrors.New(pkgerrors.CodeInvalidPayload, "amount must be a whole number of minor units")
	}
	return parsed.IntPart(), true, nil
}

// majorUnits renders minor units for logs, e.g. 50000 -> "500.00".
func majorUnits(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
