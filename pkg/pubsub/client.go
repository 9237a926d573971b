// Package pubsub wraps the Pub/Sub v2 client used by the outbox relay.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"go.uber.org/multierr"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/angelmondragon/gigboard-backend/pkg/config"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
)

var (
	errProjectIDRequired = errors.New("gcp project id is required")
	errNoTopics          = errors.New("pubsub topic name is required")
	errNotInitialized    = errors.New("pubsub client not initialized")
)

// Client owns the SDK client and one publisher per topic. Publishers batch
// in the background, so they are cached and stopped on Close.
type Client struct {
	sdk       *pubsub.Client
	projectID string
	topics    []string

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
}

// NewClient connects and fails fast when a configured topic is missing.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	projectID := strings.TrimSpace(gcp.ProjectID)
	if projectID == "" {
		return nil, errProjectIDRequired
	}
	topics := TopicNames(cfg)
	if len(topics) == 0 {
		return nil, errNoTopics
	}

	sdk, err := pubsub.NewClient(ctx, projectID, clientOptions(gcp)...)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}
	c := &Client{
		sdk:        sdk,
		projectID:  projectID,
		topics:     topics,
		publishers: make(map[string]*pubsub.Publisher, len(topics)),
	}
	if err := c.Ping(ctx); err != nil {
		return nil, multierr.Append(err, sdk.Close())
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "topics", topics), "pubsub client initialized")
	}
	return c, nil
}

func clientOptions(gcp config.GCPConfig) []option.ClientOption {
	if creds := strings.TrimSpace(gcp.CredentialsJSON); creds != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	if path := strings.TrimSpace(gcp.ApplicationCredentials); path != "" {
		return []option.ClientOption{option.WithCredentialsFile(path)}
	}
	return nil
}

// TopicNames lists the configured topic IDs, skipping blanks.
func TopicNames(cfg config.PubSubConfig) []string {
	var names []string
	for _, name := range []string{cfg.BidsTopic, cfg.PaymentsTopic} {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Publisher returns the cached publisher for a topic ID or resource name.
func (c *Client) Publisher(name string) *pubsub.Publisher {
	if c == nil || c.sdk == nil {
		return nil
	}
	resource := topicResourceName(c.projectID, name)
	if resource == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.publishers[resource]; ok {
		return p
	}
	p := c.sdk.Publisher(resource)
	c.publishers[resource] = p
	return p
}

// Ping checks every configured topic still exists.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.sdk == nil {
		return errNotInitialized
	}
	var err error
	for _, name := range c.topics {
		err = multierr.Append(err, c.checkTopic(ctx, name))
	}
	return err
}

func (c *Client) checkTopic(ctx context.Context, name string) error {
	resource := topicResourceName(c.projectID, name)
	_, err := c.sdk.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: resource})
	switch {
	case err == nil:
		return nil
	case status.Code(err) == codes.NotFound:
		return fmt.Errorf("topic %q does not exist", name)
	default:
		return fmt.Errorf("checking topic %q: %w", name, err)
	}
}

// Close flushes pending publishes before closing the connection.
func (c *Client) Close() error {
	if c == nil || c.sdk == nil {
		return nil
	}
	c.mu.Lock()
	for resource, p := range c.publishers {
		p.Stop()
		delete(c.publishers, resource)
	}
	c.mu.Unlock()
	return c.sdk.Close()
}

func topicResourceName(projectID, name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return ""
	case strings.HasPrefix(name, "projects/") && strings.Contains(name, "/topics/"):
		return name
	case strings.TrimSpace(projectID) == "":
		return ""
	}
	return "projects/" + strings.TrimSpace(projectID) + "/topics/" + name
}
