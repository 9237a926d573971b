package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/gigboard-backend/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	require.Equal(t, "projects/p1/topics/bids", topicResourceName("p1", "bids"))
	require.Equal(t, "projects/other/topics/bids", topicResourceName("p1", "projects/other/topics/bids"))
	require.Empty(t, topicResourceName("", "bids"))
	require.Empty(t, topicResourceName("p1", "  "))
}

func TestTopicNamesSkipsBlank(t *testing.T) {
	names := TopicNames(config.PubSubConfig{BidsTopic: "bids", PaymentsTopic: " "})
	require.Equal(t, []string{"bids"}, names)
}

func TestClientOptions(t *testing.T) {
	require.Empty(t, clientOptions(config.GCPConfig{ProjectID: "p1"}))
	require.Len(t, clientOptions(config.GCPConfig{CredentialsJSON: `{"type":"service_account"}`}), 1)
	require.Len(t, clientOptions(config.GCPConfig{ApplicationCredentials: "/tmp/creds.json"}), 1)
}

func TestNewClientRequiresProject(t *testing.T) {
	_, err := NewClient(context.Background(), config.GCPConfig{}, config.PubSubConfig{}, nil)
	require.ErrorIs(t, err, errProjectIDRequired)

	_, err = NewClient(context.Background(), config.GCPConfig{ProjectID: "p1"}, config.PubSubConfig{BidsTopic: " "}, nil)
	require.ErrorIs(t, err, errNoTopics)
}

func TestNilClientSafety(t *testing.T) {
	var c *Client
	require.Nil(t, c.Publisher("bids"))
	require.ErrorIs(t, c.Ping(context.Background()), errNotInitialized)
	require.NoError(t, c.Close())
}
