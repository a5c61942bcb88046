// Package realtime is the change-notification channel: every mutation
// publishes a table-scoped event and subscribers re-fetch the collection.
// No diffs are shipped.
package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
)

const channelPrefix = "changes:"

// Feed publishes and subscribes to change events over redis pub/sub.
type Feed struct {
	client *redis.Client
	logger *zap.Logger
}

// NewFeed creates a change feed over a redis client.
func NewFeed(client *redis.Client, logger *zap.Logger) *Feed {
	return &Feed{client: client, logger: logger}
}

// Publish emits a change event for a table. Publish failures are logged
// and swallowed: the mutation already committed, a missed notification
// only delays the next re-fetch.
func (f *Feed) Publish(ctx context.Context, table, rowID, action string) {
	event := domain.ChangeEvent{
		Table:  table,
		RowID:  rowID,
		Action: action,
		At:     time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		f.logger.Warn("marshal change event failed", zap.Error(err))
		return
	}

	if err := f.client.Publish(ctx, channelPrefix+table, data).Err(); err != nil {
		f.logger.Warn("publish change event failed",
			zap.String("table", table), zap.Error(err))
	}
}

// Subscribe returns a channel of change events for one table. The channel
// closes when ctx is canceled.
func (f *Feed) Subscribe(ctx context.Context, table string) <-chan domain.ChangeEvent {
	sub := f.client.Subscribe(ctx, channelPrefix+table)
	out := make(chan domain.ChangeEvent, 16)

	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.logger.Warn("unmarshal change event failed", zap.Error(err))
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
