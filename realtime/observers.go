package realtime

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/config"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models/reports"
	"github.com/redis/go-redis/v9"
)

const publishTimeout = 10 * time.Second

// SnapshotCache mirrors the latest snapshot into Redis so other instances and the
// export tool can read it without recomputing. A nil client turns it into a no-op.
type SnapshotCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client, key string, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, key: key, ttl: ttl}
}

func (c *SnapshotCache) Observe(ctx context.Context, snapshot reports.MetricsSnapshot) error {
	return config.SetRedisObject(ctx, c.client, c.key, snapshot, c.ttl)
}

// Evict drops the cached snapshot so readers of the cache stop seeing data that can no
// longer be refreshed.
func (c *SnapshotCache) Evict(ctx context.Context) error {
	return config.RemoveRedisKey(ctx, c.client, c.key)
}

func (c *SnapshotCache) Load(ctx context.Context) (reports.MetricsSnapshot, bool, error) {
	var snapshot reports.MetricsSnapshot
	found, err := config.GetRedisObject(ctx, c.client, c.key, &snapshot)
	return snapshot, found, err
}

// SnapshotMessage is the Pub/Sub payload announcing a new dashboard snapshot.
type SnapshotMessage struct {
	BusinessId string                  `json:"business_id"`
	Snapshot   reports.MetricsSnapshot `json:"snapshot"`
}

// TopicBroadcaster publishes each snapshot to a Pub/Sub topic. A nil topic is a no-op.
type TopicBroadcaster struct {
	topic      *pubsub.Topic
	businessId string
}

func NewTopicBroadcaster(topic *pubsub.Topic, businessId string) *TopicBroadcaster {
	if topic != nil {
		// Snapshots for one business must arrive in the order they were computed.
		topic.EnableMessageOrdering = true
	}
	return &TopicBroadcaster{topic: topic, businessId: businessId}
}

func (b *TopicBroadcaster) Observe(ctx context.Context, snapshot reports.MetricsSnapshot) error {
	if b.topic == nil {
		return nil
	}
	msg, err := snapshotMessage(b.businessId, snapshot)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	_, err = b.topic.Publish(ctx, msg).Get(ctx)
	return err
}

func snapshotMessage(businessId string, snapshot reports.MetricsSnapshot) (*pubsub.Message, error) {
	data, err := json.Marshal(SnapshotMessage{BusinessId: businessId, Snapshot: snapshot})
	if err != nil {
		return nil, err
	}
	return &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"business_id": businessId,
			"as_of":       snapshot.AsOf,
		},
		OrderingKey: businessId,
	}, nil
}
