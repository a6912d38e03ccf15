package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

const InAppChannelName = "in-app"

// InAppChannel publishes to a per-recipient redis channel; a websocket layer
// in front of the UI subscribes and pushes to open sessions. The durable
// copy already lives in the notification store.
type InAppChannel struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewInAppChannel(rdb *redis.Client, log *zap.Logger) *InAppChannel {
	return &InAppChannel{rdb: rdb, log: log}
}

func (c *InAppChannel) Name() string { return InAppChannelName }

func (c *InAppChannel) CanHandle(n *models.Notification) bool {
	return n.Channels.Contains(InAppChannelName)
}

func (c *InAppChannel) Send(ctx context.Context, n *models.Notification) DeliveryOutcome {
	payload, err := json.Marshal(map[string]interface{}{
		"id":        n.ID,
		"type":      n.Type,
		"content":   n.Content,
		"metadata":  n.Metadata,
		"createdAt": n.CreatedAt,
	})
	if err != nil {
		return Failed(err, nil)
	}

	feed := fmt.Sprintf("inapp:%s", n.RecipientID)
	if err := c.rdb.Publish(ctx, feed, payload).Err(); err != nil {
		return Failed(err, map[string]interface{}{"feed": feed})
	}

	messageID := fmt.Sprintf("in-app-%d-%s", time.Now().UnixMilli(), n.ID)
	return Delivered(messageID, map[string]interface{}{"feed": feed})
}
