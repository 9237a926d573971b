package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/gigboard-backend/pkg/db/dbtest"
	"github.com/angelmondragon/gigboard-backend/pkg/db/models"
	"github.com/angelmondragon/gigboard-backend/pkg/enums"
)

func TestSealDefaults(t *testing.T) {
	env, raw, err := seal(DomainEvent{
		EventType: enums.EventBidCreated,
		Data:      map[string]any{"amount": 450},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, env.Version)
	assert.False(t, env.OccurredAt.IsZero())
	_, err = uuid.Parse(env.EventID)
	require.NoError(t, err)

	opened, err := OpenEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, env.EventID, opened.EventID)
	assert.JSONEq(t, `{"amount":450}`, string(opened.Data))
}

func TestSealKeepsCallerTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("WAT", 3600))
	env, _, err := seal(DomainEvent{EventType: enums.EventBidCreated, Version: 2, OccurredAt: at, Data: struct{}{}})
	require.NoError(t, err)
	assert.Equal(t, 2, env.Version)
	assert.True(t, env.OccurredAt.Equal(at))
	assert.Equal(t, time.UTC, env.OccurredAt.Location())
}

func TestOpenEnvelopeRejectsEmptyData(t *testing.T) {
	_, err := OpenEnvelope([]byte(`{"version":1,"eventId":"e","data":null}`))
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = OpenEnvelope([]byte(`{"version":1,"eventId":"e"}`))
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = OpenEnvelope([]byte(`{"version":`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyData)
}

func TestEmitStoresEnvelopeInTransaction(t *testing.T) {
	client := dbtest.New(t)
	svc := NewService(NewRepository(client.DB()), nil)
	ctx := context.Background()
	bidID := uuid.New()

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return svc.Emit(ctx, tx, DomainEvent{
			EventType:     enums.EventBidCountered,
			AggregateType: enums.AggregateBid,
			AggregateID:   bidID,
			Actor:         &ActorRef{UserID: "poster-1"},
			Data:          map[string]any{"bidId": bidID.String()},
		})
	})
	require.NoError(t, err)

	var rows []models.OutboxEvent
	require.NoError(t, client.DB().Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.EventBidCountered, rows[0].EventType)
	assert.Nil(t, rows[0].PublishedAt)

	var env PayloadEnvelope
	require.NoError(t, json.Unmarshal(rows[0].Payload, &env))
	require.NotNil(t, env.Actor)
	assert.Equal(t, "poster-1", env.Actor.UserID)
}

func TestEmitValidatesEvent(t *testing.T) {
	client := dbtest.New(t)
	svc := NewService(NewRepository(client.DB()), nil)
	ctx := context.Background()
	db := client.DB()

	cases := map[string]DomainEvent{
		"unknown type":      {EventType: "gig_deleted", AggregateType: enums.AggregateBid, AggregateID: uuid.New()},
		"unknown aggregate": {EventType: enums.EventBidCreated, AggregateType: "gig", AggregateID: uuid.New()},
		"nil aggregate id":  {EventType: enums.EventBidCreated, AggregateType: enums.AggregateBid},
		"unmarshalable":     {EventType: enums.EventBidCreated, AggregateType: enums.AggregateBid, AggregateID: uuid.New(), Data: func() {}},
	}
	for name, event := range cases {
		assert.Error(t, svc.Emit(ctx, db, event), name)
	}
	assert.Error(t, svc.Emit(ctx, nil, DomainEvent{}))
}
