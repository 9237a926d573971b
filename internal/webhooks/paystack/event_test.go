package paystack

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
)

func TestParseEvent(t *testing.T) {
	event, err := ParseEvent([]byte(`{"event":" charge.success ","data":{"reference":" ps_1_abc ","status":"success","amount":50000}}`))
	require.NoError(t, err)
	assert.Equal(t, "charge.success", event.Event)
	assert.Equal(t, "ps_1_abc", event.Data.Reference)
	assert.Equal(t, "success", event.Data.Status)

	_, err = ParseEvent([]byte(`{"event":`))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidPayload))
}

func TestEventAmount(t *testing.T) {
	cases := []struct {
		raw     string
		want    int64
		present bool
		wantErr bool
	}{
		{raw: ``},
		{raw: `null`},
		{raw: `50000`, want: 50000, present: true},
		{raw: `500.00`, want: 500, present: true},
		{raw: `"1200"`, want: 1200, present: true},
		{raw: `12.5`, wantErr: true},
		{raw: `"abc"`, wantErr: true},
	}

	for _, tc := range cases {
		data := EventData{Amount: json.RawMessage(tc.raw)}
		got, present, err := data.amount()
		if tc.wantErr {
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidPayload), "raw %q: %v", tc.raw, err)
			continue
		}
		require.NoError(t, err, "raw %q", tc.raw)
		assert.Equal(t, tc.present, present, "raw %q", tc.raw)
		assert.Equal(t, tc.want, got, "raw %q", tc.raw)
	}
}

func TestMajorUnits(t *testing.T) {
	assert.Equal(t, "500.00", majorUnits(50000))
	assert.Equal(t, "0.05", majorUnits(5))
}
