// Package notify tells the other app role that a booking changed status.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Change describes one applied status transition. Notify is the role that
// did not make the change.
type Change struct {
	BookingID string    `json:"bookingId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Actor     string    `json:"actor"`
	Notify    string    `json:"notify"`
	At        time.Time `json:"at"`
}

type Notifier interface {
	StatusChanged(ctx context.Context, ch Change) error
}

// ======================================================
// Log
// ======================================================

type LogNotifier struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) StatusChanged(_ context.Context, ch Change) error {
	n.log.Info(fmt.Sprintf("%s will be notified", ch.Notify),
		zap.String("booking_id", ch.BookingID),
		zap.String("from", ch.From),
		zap.String("to", ch.To),
		zap.String("actor", ch.Actor),
	)
	return nil
}

// ======================================================
// Redis pub/sub
// ======================================================

type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedis(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) StatusChanged(ctx context.Context, ch Change) error {
	payload, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", n.channel, err)
	}
	return nil
}

// Subscribe delivers changes published on the channel until ctx is done.
func (n *RedisNotifier) Subscribe(ctx context.Context, fn func(Change)) error {
	sub := n.client.Subscribe(ctx, n.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", n.channel, err)
	}
	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var ch Change
			if err := json.Unmarshal([]byte(msg.Payload), &ch); err != nil {
				continue
			}
			fn(ch)
		}
	}
}

// ======================================================
// Fan-out
// ======================================================

type Multi []Notifier

// StatusChanged calls every notifier and joins their errors.
func (m Multi) StatusChanged(ctx context.Context, ch Change) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.StatusChanged(ctx, ch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
