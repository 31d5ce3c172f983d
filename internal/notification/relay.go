package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"planora-backend/pkg/logger"
	"planora-backend/pkg/sse"
)

// Envelope is the change message relayed between instances. Origin carries
// the publishing instance's ID so every instance can skip its own messages.
type Envelope struct {
	Origin    string    `json:"origin"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"`
	ChangedAt time.Time `json:"changedAt"`
}

// Relay fans data changes out across running instances through a Pub/Sub
// topic. Each instance publishes the changes it applied locally and consumes
// everyone else's through its own ephemeral subscription, pushing an SSE
// "sync" event so connected clients refetch.
type Relay struct {
	client     *pubsub.Client
	topic      *pubsub.Topic
	sseManager *sse.Manager
	instanceID string
	topicName  string
	subName    string
}

// NewRelay connects to Pub/Sub and ensures the topic exists. An empty
// subscription name yields a per-instance subscription that expires on its
// own once the instance is gone.
func NewRelay(projectID, topicName, subscription string, sseManager *sse.Manager, credentialsFile string) (*Relay, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	instanceID := uuid.New().String()
	if subscription == "" {
		subscription = fmt.Sprintf("%s-%s", topicName, instanceID[:8])
	}
	r := &Relay{
		client:     client,
		sseManager: sseManager,
		instanceID: instanceID,
		topicName:  topicName,
		subName:    subscription,
	}

	if r.topic, err = r.ensureTopic(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return r, nil
}

// PublishChange announces a local data change to the other instances.
// Failures are logged; the local mutation has already been applied and
// answered.
func (r *Relay) PublishChange(userID, kind string) {
	data, err := json.Marshal(Envelope{
		Origin:    r.instanceID,
		UserID:    userID,
		Kind:      kind,
		ChangedAt: time.Now(),
	})
	if err != nil {
		logger.Errorf("[Relay] Failed to marshal envelope: %v", err)
		return
	}

	result := r.topic.Publish(context.Background(), &pubsub.Message{Data: data})
	go func() {
		if _, err := result.Get(context.Background()); err != nil {
			logger.Errorf("[Relay] Failed to publish %s change for user %s: %v", kind, userID, err)
		}
	}()
}

// Start ensures this instance's subscription exists, then consumes messages
// until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) {
	logger.Infof("[Relay] Starting with topic %s, subscription %s", r.topicName, r.subName)

	sub, err := r.ensureSubscription(ctx, r.topic)
	if err != nil {
		logger.Errorf("[Relay] %v", err)
		return
	}

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		r.handleMessage(msg)
		msg.Ack()
	})
	if err != nil {
		logger.Errorf("[Relay] Receive stopped: %v", err)
	}
}

func (r *Relay) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	topic := r.client.Topic(r.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic %s: %w", r.topicName, err)
	}
	if exists {
		return topic, nil
	}

	topic, err = r.client.CreateTopic(ctx, r.topicName)
	if err != nil {
		return nil, fmt.Errorf("failed to create topic %s: %w", r.topicName, err)
	}
	logger.Infof("[Relay] Created topic %s", r.topicName)
	return topic, nil
}

func (r *Relay) ensureSubscription(ctx context.Context, topic *pubsub.Topic) (*pubsub.Subscription, error) {
	sub := r.client.Subscription(r.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription %s: %w", r.subName, err)
	}
	if exists {
		return sub, nil
	}

	sub, err = r.client.CreateSubscription(ctx, r.subName, pubsub.SubscriptionConfig{
		Topic:       topic,
		AckDeadline: 10 * time.Second,
		// Instance subscriptions are ephemeral; let dead ones expire.
		ExpirationPolicy: 24 * time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription %s: %w", r.subName, err)
	}
	logger.Infof("[Relay] Created subscription %s", r.subName)
	return sub, nil
}

func (r *Relay) handleMessage(msg *pubsub.Message) {
	var env Envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		logger.Errorf("[Relay] Failed to unmarshal envelope: %v", err)
		return
	}

	// Local mutations already reached local subscribers through the feeds.
	if env.Origin == r.instanceID {
		return
	}

	logger.Debugf("[Relay] %s change for user %s from instance %s", env.Kind, env.UserID, env.Origin)
	r.sseManager.SendToUser(env.UserID, "sync", map[string]interface{}{
		"kind":      env.Kind,
		"changedAt": env.ChangedAt,
	})
}

// Close tears down this instance's subscription and the client connection.
func (r *Relay) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := r.client.Subscription(r.subName)
	if err := sub.Delete(ctx); err != nil {
		logger.Warnf("[Relay] Failed to delete subscription %s: %v", r.subName, err)
	}
	r.topic.Stop()
	if err := r.client.Close(); err != nil {
		logger.Warnf("[Relay] Failed to close client: %v", err)
	}
}
